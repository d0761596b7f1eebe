package utils

import (
	"log"
	"os"
)

var (
	JWTSecretKey      string
	JWTExpirationTime int64
)

// InitJWT loads the signing key and token lifetime from the environment.
func InitJWT() {
	// Tests run without a .env file; give them workable defaults.
	if os.Getenv("GO_ENV") == "test" {
		if os.Getenv("JWT_SECRET_KEY") == "" {
			os.Setenv("JWT_SECRET_KEY", "test_secret_key")
		}
		if os.Getenv("JWT_EXPIRATION_TIME") == "" {
			os.Setenv("JWT_EXPIRATION_TIME", "3600")
		}
	}

	JWTSecretKey = GetEnvAsString("JWT_SECRET_KEY", "")
	if JWTSecretKey == "" {
		log.Fatal("JWT Secret Key not set")
	}

	JWTExpirationTime = int64(GetEnvAsInt("JWT_EXPIRATION_TIME", 3600))
}
