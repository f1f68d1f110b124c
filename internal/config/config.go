package config

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	return p.driver.Read()
}

func (p *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := p.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return p.driver.Write(cfg)
}

// Normalize fills in missing options so the config file lists all of them. A
// config that does not describe a valid layout is left untouched.
func Normalize(store Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		if cfg.Gap == nil {
			gap := cfg.GapOrDefault()
			cfg.Gap = &gap
		}
		if cfg.Clamp == nil {
			clamp := cfg.ClampOrDefault()
			cfg.Clamp = &clamp
		}
		if cfg.Layout == "" {
			cfg.Layout = LayoutTile
		}
		if cfg.Remainder == "" {
			cfg.Remainder = RemainderLast
		}
		if cfg.Manual == nil {
			cfg.Manual = []LayoutManual{}
		}

		if _, err := cfg.Mosaic(); err != nil {
			return cfg, err
		}

		return cfg, nil
	})
}

// Load reads the config of driver without creating it. A missing config is
// the default config.
func Load(driver Driver) (Config, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Config{}, err
	}
	if !exists {
		return defaultConfig, nil
	}

	return driver.Read()
}
