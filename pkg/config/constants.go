package config

const (
	EnvPrefix = "GROCER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GROCER_DB_DSN"
	EnvDBHost = "GROCER_DB_HOST"
	EnvDBUser = "GROCER_DB_USER"
	EnvDBName = "GROCER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
