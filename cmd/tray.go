package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/server"
)

// TrayToggle shows or hides a running build viewer.
func (r *Runner) TrayToggle(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.control.Toggle(ctx)
	if err != nil {
		return err
	}
	return r.writeControl(resp)
}

// TrayApply asks a running build viewer to write item sets for its current champion.
func (r *Runner) TrayApply(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.control.Apply(ctx, cmd.String("source"))
	if err != nil {
		return err
	}
	return r.writeControl(resp)
}

// TrayStatus prints a running build viewer's connection state.
func (r *Runner) TrayStatus(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.control.Status(ctx)
	if err != nil {
		return err
	}
	return r.writeControl(resp)
}

func (r *Runner) writeControl(resp *server.ControlResponse) error {
	if resp.Command != "" {
		source := ""
		if resp.Source != "" {
			source = fmt.Sprintf(" (%s)", resp.Source)
		}
		r.writePlain("✓ %s queued%s\n", resp.Command, source)
	}

	if !resp.Connected {
		return r.writePlain("Client: not connected\n")
	}
	r.writePlain("Client: connected on port %d\n", resp.Port)
	if resp.ChampionID > 0 {
		r.writePlain("Champion: %d\n", resp.ChampionID)
	}
	return nil
}
