package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultCommandTimeout ограничивает команду хука, у которой
// не задано собственное ограничение.
const defaultCommandTimeout = 30 * time.Second

// runCommand выполняет команду хука с ограничением времени.
// Вывод команды попадает в ошибку: хуки работают без присмотра,
// и куцее "exit status 1" в логе не объясняет ничего.
func runCommand(ctx context.Context, args []string, timeout time.Duration) error {
	if len(args) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return fmt.Errorf("command %q: %w: %s", strings.Join(args, " "), err, trimmed)
		}
		return fmt.Errorf("command %q: %w", strings.Join(args, " "), err)
	}
	return nil
}
