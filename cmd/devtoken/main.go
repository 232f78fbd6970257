// Command devtoken mints a bearer token signed with JWT_SECRET for local use.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/auth"
)

func main() {
	subject := flag.String("sub", "student-dev", "token subject (external user id)")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "Dev User", "name claim")
	role := flag.String("role", model.RoleStudent, "role claim: student or staff")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	if *email == "" {
		*email = *subject + "@bursary-hub.local"
	}

	manager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Issuer: env.JWT_ISSUER,
		Expiry: *ttl,
	})

	token, jti, err := manager.IssueToken(*subject, *email, *name, *role)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	log.Printf("issued token %s for %s (%s), expires in %s", jti, *subject, *role, *ttl)
	fmt.Println(token)
}
