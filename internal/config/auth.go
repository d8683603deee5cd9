package config

type Auth struct {
	// Bootstrap provisions an initial admin account on startup. When no
	// token is configured a random one is generated and logged once.
	Bootstrap Bootstrap `envPrefix:"BOOTSTRAP_"`
}

type Bootstrap struct {
	Token string `env:"TOKEN" envDefault:""`
	Name  string `env:"NAME" envDefault:"admin"`
	Email string `env:"EMAIL" envDefault:"admin@localhost"`
}
