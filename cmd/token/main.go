// token emite un JWT firmado con JWT_SECRET para operar la API con autenticación activa.
//
// Uso: go run ./cmd/token -sub ana -role bodeguero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/perishables-api/pkg/config"
	"github.com/jhoicas/perishables-api/pkg/jwt"
)

func main() {
	sub := flag.String("sub", "", "usuario (claim sub)")
	role := flag.String("role", jwt.RoleConsulta, "rol: admin, bodeguero, consulta")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "Uso: token -sub <usuario> [-role admin|bodeguero|consulta]")
		os.Exit(2)
	}
	switch *role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleConsulta:
	default:
		fmt.Fprintf(os.Stderr, "Rol inválido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está configurado")
		os.Exit(1)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *sub, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
