package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/service/identity"
)

// token prints a signed bearer token for local testing and operator access.
func main() {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "sub", "", "User id to embed as the token subject")
	flag.StringVar(&role, "role", domain.RoleAuthenticated, "Role: authenticated, admin or service_role")
	flag.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg := config.FromEnv()
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(2)
	}

	token, err := identity.NewService(cfg.JWTSecret).Issue(subject, role, ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
