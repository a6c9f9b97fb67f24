// Command token-generator mints HS256 tokens accepted by the API write guard.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phrazzld/rest-template/internal/api/middleware"
)

const secretEnvVar = "APP_AUTH_JWT_SECRET"

func main() {
	secret := flag.String("secret", "", "signing secret (defaults to "+secretEnvVar+")")
	issuer := flag.String("issuer", os.Getenv("APP_AUTH_ISSUER"), "token issuer")
	subject := flag.String("subject", "dev", "token subject")
	scopes := flag.String("scopes", middleware.WriteScope, "space-separated scopes")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	envFile := flag.String("env-file", ".env", "optional .env file to load")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	if *secret == "" {
		*secret = os.Getenv(secretEnvVar)
	}
	if *secret == "" {
		fmt.Fprintf(os.Stderr, "no secret given: pass -secret or set %s\n", secretEnvVar)
		os.Exit(2)
	}

	token, err := middleware.SignToken(*secret, *issuer, *subject, strings.Fields(*scopes), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
