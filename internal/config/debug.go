package config

import "os"

func IsDebug() bool {
	return os.Getenv("CHATMINDER_DEBUG") == "1"
}
