package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

// admintoken prints a bearer token for the /admin routes.
func main() {
	fs := pflag.NewFlagSet("admintoken", pflag.ContinueOnError)
	secret := fs.StringP("secret", "s", "", "HS256 signing secret (defaults to $JWT_SECRET)")
	subject := fs.String("subject", "operator", "token subject, shown in audit logs")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	v := viper.New()
	v.AutomaticEnv()
	if *secret == "" {
		*secret = v.GetString("JWT_SECRET")
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "no signing secret: pass --secret or set JWT_SECRET")
		os.Exit(1)
	}

	token, err := service.NewJWTService(*secret, *ttl).GenerateToken(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
