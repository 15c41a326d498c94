package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Socialgraph"
	s.app.Usage = "Social graph backend"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to start the http api, it serves users, follows, communities, posts, comments, likes and feeds.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to start background jobs, currently the periodic reconciliation of every counter.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start engagement subscriber",
			Category:    "Worker",
			Description: `Used to consume engagement events and reconcile the counters of the affected entities.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database schema",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "version",
					Usage: "Target schema version, 0 means the latest one",
				},
			},
		},
		{
			Action:   s.generateToken,
			Name:     "token",
			Usage:    "Generate an access token",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user",
					Usage:    "Id of the user owning the token",
					Required: true,
				},
			},
		},
	}
}
