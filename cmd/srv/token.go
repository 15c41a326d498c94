package main

import (
	"fmt"

	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) generateToken(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadTokenEngine()

	userID := cctx.String("user")
	token, err := s.tokenEngine.Generate(userID, model.AccessToken{ID: userID})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
