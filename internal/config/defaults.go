package config

const (
	defaultStorageDir   = "~/.local/share/seqvault/storage"
	defaultRegistryPath = "~/.local/share/seqvault/registry.db"
	defaultLogDir       = "~/.local/share/seqvault/logs"
	defaultDataDirName  = "data"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageDir:   defaultStorageDir,
			RegistryPath: defaultRegistryPath,
			LogDir:       defaultLogDir,
		},
		Import: Import{
			ShardStorage:    true,
			FastqReadPrefix: "",
			DataDirName:     defaultDataDirName,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
