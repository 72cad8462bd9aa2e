package launcher

import (
	"github.com/joho/godotenv"

	"github.com/firefly-engineering/botlaunch/internal/logging"
	"github.com/firefly-engineering/botlaunch/internal/system"
)

// MissingEnv returns the required variables that are neither set in env
// nor defined in the dotenv file. An unreadable dotenv file counts as empty.
func MissingEnv(env system.Environment, dotEnvPath string, required []string) []string {
	if len(required) == 0 {
		return nil
	}

	dotEnv, err := godotenv.Read(dotEnvPath)
	if err != nil {
		logging.Debug("no dotenv file", "path", dotEnvPath, "error", err)
		dotEnv = nil
	}

	var missing []string
	for _, name := range required {
		if v, ok := env.LookupEnv(name); ok && v != "" {
			continue
		}
		if dotEnv[name] != "" {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
