package core

import (
	"context"
	"time"

	"github.com/giantswarm/adbenv/internal/journal"
)

// provisioningTool is the user management command shipped in the image.
const provisioningTool = "dragonlite"

type userAction string

const (
	createUser userAction = "-cu"
	deleteUser userAction = "-du"
)

func (a userAction) String() string {
	if a == createUser {
		return "create"
	}
	return "delete"
}

// userCommand builds the provisioning command line. It carries passwords and
// must never be logged.
func userCommand(action userAction, profile, adminPassword, username, password string) []string {
	return []string{
		provisioningTool, string(action),
		"-p", profile,
		"-ap", adminPassword,
		"-u", username,
		"-up", password,
	}
}

// provision runs a user command inside the instance. The exit code and output
// are only logged: the tool's output format is not a contract, so failures
// surface later as login errors in the tests using the user.
func (c *Controller) provision(ctx context.Context, action userAction) {
	username := c.Username()
	cmd := userCommand(action, c.cfg.Profile, c.cfg.AdminPassword, username, c.cfg.Password)

	started := time.Now()
	res, err := c.rt.Exec(ctx, cmd)
	if err != nil {
		c.log.Warn("scoped user command failed", "action", action, "username", username, "error", err)
		return
	}
	c.log.Info("scoped user command finished",
		"action", action,
		"username", username,
		"exit_code", res.ExitCode,
		"output_bytes", len(res.Output),
		"elapsed", time.Since(started))

	switch action {
	case createUser:
		c.journalCreated(ctx, username)
	case deleteUser:
		c.journalDeleted(ctx, username)
	}
}

func (c *Controller) journalCreated(ctx context.Context, username string) {
	if c.journal == nil {
		return
	}
	err := c.journal.RecordCreated(ctx, journal.Entry{
		Database: c.cfg.DatabaseName,
		Username: username,
		Profile:  c.cfg.Profile,
	})
	if err != nil {
		c.log.Warn("journal write failed", "path", c.journal.Path(), "error", err)
	}
}

func (c *Controller) journalDeleted(ctx context.Context, username string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordDeleted(ctx, c.cfg.DatabaseName, username); err != nil {
		c.log.Warn("journal write failed", "path", c.journal.Path(), "error", err)
	}
}
