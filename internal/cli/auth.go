package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ritualapp/ritual-cli/internal/keyring"
)

type AuthCmd struct {
	SetToken AuthSetTokenCmd `cmd:"" name:"set-token" help:"Store the server API token in the OS keyring."`
	Clear    AuthClearCmd    `cmd:"" help:"Remove the stored API token."`
	Status   AuthStatusCmd   `cmd:"" help:"Check whether a token is stored and accepted."`
}

type AuthSetTokenCmd struct {
	Token string `arg:"" help:"API token issued by the ritual server."`
}

func (c *AuthSetTokenCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; set RITUAL_API_TOKEN instead")
	}
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}
	fmt.Println("Token stored.")
	return nil
}

type AuthClearCmd struct{}

func (c *AuthClearCmd) Run(ctx *Context) error {
	err := keyring.DeleteToken()
	if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("No token was stored.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Token removed.")
	return nil
}

type AuthStatusCmd struct{}

func (c *AuthStatusCmd) Run(ctx *Context) error {
	source := "keyring"
	if ctx.Env.APIToken != "" {
		source = "RITUAL_API_TOKEN"
	} else if _, err := keyring.GetToken(); errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("No token stored. Run 'ritual auth set-token <token>'.")
		return nil
	} else if err != nil {
		return err
	}

	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	fmt.Printf("Token present (%s).\n", source)

	probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eng.API.Ping(probeCtx); err != nil {
		fmt.Printf("Server check failed: %v\n", err)
		return nil
	}
	fmt.Println("Server reachable.")
	return nil
}
