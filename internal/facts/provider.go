package facts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
)

var (
	// ErrADBNotFound is returned when the adb binary cannot be executed
	ErrADBNotFound = errors.New("adb binary not found")
	// ErrEmptySource is returned for a blank scan source
	ErrEmptySource = errors.New("empty scan source")
)

const adbScheme = "adb"

// Provider collects the facts of one device
type Provider interface {
	// Name identifies the source in reports and logs
	Name() string
	Collect(ctx context.Context) (model.FactSet, error)
}

// PermissionReporter is implemented by providers that know which
// permissions the collecting app was missing
type PermissionReporter interface {
	MissingPermissions() []string
}

// Pacer throttles calls per device key (worker.Limiter satisfies it)
type Pacer interface {
	Wait(ctx context.Context, key string) error
}

// Options configures providers built by ParseSource
type Options struct {
	ADBPath string
	Timeout time.Duration // Per adb command
	Pacer   Pacer
	Runner  CommandRunner
	Logger  *logger.Logger
}

// ParseSource picks a provider: "adb" or "adb:<serial>" scans a live
// device, anything else is a snapshot file path.
func ParseSource(source string, opts Options) (Provider, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	if source == adbScheme {
		return NewADBProvider("", opts), nil
	}
	if serial, ok := strings.CutPrefix(source, adbScheme+":"); ok {
		if serial == "" {
			return nil, fmt.Errorf("source %q: missing device serial", source)
		}
		return NewADBProvider(serial, opts), nil
	}

	return NewFileProvider(source, opts.Logger), nil
}
