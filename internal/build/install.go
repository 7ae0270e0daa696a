package build

import (
	"context"
	"strings"

	vlog "github.com/futureCreator/nfbuild/internal/log"
)

// InstallDependencies runs the platform's configured install commands in
// order. No commands is a no-op.
func (p *Pipeline) InstallDependencies(ctx context.Context) error {
	cmds := p.Config.InstallCommands(p.Platform.Name())
	if len(cmds) == 0 {
		vlog.Info("no dependencies to install", "platform", p.Platform.Name())
		return nil
	}
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		vlog.Info("installing dependencies", "cmd", strings.Join(cmd, " "))
		if _, err := p.run(ctx, cmd[0], cmd[1:], nil); err != nil {
			return &DependencyInstallError{Command: strings.Join(cmd, " "), Err: err}
		}
	}
	return nil
}
