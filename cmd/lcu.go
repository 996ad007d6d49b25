package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/shared"
)

// lcuStatus is the output of 'champr lcu status'.
type lcuStatus struct {
	Connected       bool   `json:"connected"`
	InstallDir      string `json:"installDir"`
	AlternateRegion bool   `json:"alternateRegion"`
	Port            int    `json:"port,omitempty"`
	PID             int    `json:"pid,omitempty"`
	Summoner        string `json:"summoner,omitempty"`
	ChampionID      int64  `json:"championId,omitempty"`
}

// LCUStatus reports whether the client is running and who is logged in.
func (r *Runner) LCUStatus(ctx context.Context, cmd *cli.Command) error {
	status := lcuStatus{InstallDir: r.installDir(), AlternateRegion: r.config.Client.AlternateRegion}

	auth, err := r.auth()
	switch {
	case errors.Is(err, shared.ErrNotConnected), errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("client not running", "error", err)
	case err != nil:
		return err
	default:
		status.Connected = true
		status.Port = auth.Port
		status.PID = auth.PID

		if r.client != nil {
			if s, err := r.client.CurrentSummoner(ctx, auth); err != nil {
				r.logger.Warn("failed to get summoner", "error", err)
			} else {
				status.Summoner = s.DisplayName
				if s.GameName != "" {
					status.Summoner = fmt.Sprintf("%s#%s", s.GameName, s.TagLine)
				}
			}
			if id, err := r.client.CurrentChampion(ctx, auth); err == nil {
				status.ChampionID = id
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.Connected {
		dir := status.InstallDir
		if dir == "" {
			dir = "(not found, set client.install_dir)"
		}
		return r.writePlain("✗ Client not running\nInstall dir: %s\n", dir)
	}

	r.writePlain("✓ Client running on port %d (pid %d)\n", status.Port, status.PID)
	r.writePlain("Install dir: %s\n", status.InstallDir)
	if status.Summoner != "" {
		r.writePlain("Summoner: %s\n", status.Summoner)
	}
	if status.ChampionID > 0 {
		r.writePlain("Champion: %d\n", status.ChampionID)
	}
	return nil
}

// LCUGet makes a direct GET request to the client API
func (r *Runner) LCUGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	auth, err := r.auth()
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, auth, path)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrClientAPI, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	if err := r.writeRaw(resp.Body); err != nil {
		return err
	}
	return r.writeRaw([]byte("\n"))
}
