package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcmd/internal/engine"
	"github.com/dshills/textcmd/internal/logging"
)

// DefaultTimeout bounds a single run.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua scripts against an engine.
//
// gopher-lua states are not goroutine-safe; the mutex serializes runs.
type Runner struct {
	mu sync.Mutex
	L  *lua.LState

	engine  *engine.Engine
	logger  *logging.Logger
	out     io.Writer
	timeout time.Duration

	// lastErr is the most recent engine error raised into Lua.
	lastErr error
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput redirects print. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner bound to e.
func NewRunner(e *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  e,
		logger:  logging.Null(),
		out:     os.Stdout,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
	r.register(r.L)

	return r
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// RunString executes code.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.run(ctx, "<string>", func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return r.run(ctx, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (r *Runner) run(ctx context.Context, name string, fn func(*lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.lastErr = nil
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if p := recover(); p != nil {
			err = &Error{Name: name, Err: fmt.Errorf("lua panic: %v", p)}
		}
		// A script that dies inside a group still leaves one undo unit.
		if r.engine.InUndoGroup() {
			r.engine.EndUndoGroup()
		}
	}()

	start := time.Now()
	if runErr := fn(r.L); runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.logger.Warn("%s interrupted: %v", name, ctxErr)
			return &Error{Name: name, Err: runErr, Cause: ctxErr}
		}
		serr := &Error{Name: name, Err: runErr}
		if r.lastErr != nil && strings.Contains(runErr.Error(), r.lastErr.Error()) {
			serr.Cause = r.lastErr
		}
		r.logger.Warn("%v", serr)
		return serr
	}

	r.logger.Debug("%s finished in %v", name, time.Since(start))
	return nil
}

// Close releases the Lua state. Further runs return ErrRunnerClosed.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// print writes its arguments separated by tabs, like the stock print.
func (r *Runner) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}
