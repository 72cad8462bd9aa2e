package system

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]bool
	dirs  map[string]bool
	cwd   string

	// Error injection
	StatErr  error
	ChdirErr error
}

// NewMockFS creates a new MockFS with an empty filesystem rooted at "/".
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
		cwd:   "/",
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = m.abs(path)
	m.files[path] = true
	// Ensure parent directories exist
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// AddDir adds a directory (and its parents) to the mock filesystem.
func (m *MockFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.abs(path)
	for current != "." && current != "/" {
		m.dirs[current] = true
		current = filepath.Dir(current)
	}
}

// Cwd returns the mock working directory.
func (m *MockFS) Cwd() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cwd
}

// abs resolves relative paths against the mock working directory.
// Callers must hold m.mu.
func (m *MockFS) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.cwd, path)
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = m.abs(path)
	if m.files[path] {
		return &mockFileInfo{name: filepath.Base(path), mode: 0644}, nil
	}
	if m.dirs[path] || path == "/" {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = m.abs(path)
	return m.files[path] || m.dirs[path]
}

func (m *MockFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[m.abs(path)]
}

func (m *MockFS) Chdir(dir string) error {
	if m.ChdirErr != nil {
		return m.ChdirErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = m.abs(dir)
	if !m.dirs[dir] && dir != "/" {
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrNotExist}
	}
	m.cwd = dir
	return nil
}

func (m *MockFS) Getwd() (string, error) {
	return m.Cwd(), nil
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockEnv implements Environment over an in-memory map.
type MockEnv struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMockEnv creates a MockEnv seeded with the given variables.
func NewMockEnv(vars map[string]string) *MockEnv {
	m := &MockEnv{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MockEnv) Getenv(key string) string {
	v, _ := m.LookupEnv(key)
	return v
}

func (m *MockEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MockEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MockEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses.
	// Lookup order: the full command line, "command arg1", then "command".
	Responses map[string]MockResponse

	// Effects run after a matching command is recorded, keyed like Responses.
	// They let tests simulate side effects such as a tool creating files.
	Effects map[string]func()

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// ReplaceProcessErr is returned by ReplaceProcess if set.
	ReplaceProcessErr error
}

// MockCommand records an executed command.
type MockCommand struct {
	Name        string
	Args        []string
	Interactive bool
}

// String renders the command as a single space-separated line.
func (c MockCommand) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
		Effects:   make(map[string]func()),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

// AddEffect registers fn to run whenever a command matching pattern executes.
func (m *MockExecutor) AddEffect(pattern string, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Effects[pattern] = fn
}

func lookupKeys(name string, args []string) []string {
	keys := []string{MockCommand{Name: name, Args: args}.String()}
	if len(args) > 0 {
		keys = append(keys, name+" "+args[0])
	}
	return append(keys, name)
}

// record stores the command and returns its response. The matched effect,
// if any, is returned so it can run without the lock held.
func (m *MockExecutor) record(name string, args []string, interactive bool) (MockResponse, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args, Interactive: interactive})

	var effect func()
	for _, key := range lookupKeys(name, args) {
		if fn, ok := m.Effects[key]; ok {
			effect = fn
			break
		}
	}
	for _, key := range lookupKeys(name, args) {
		if resp, ok := m.Responses[key]; ok {
			return resp, effect
		}
	}
	return m.DefaultResponse, effect
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	resp, effect := m.record(name, args, false)
	if effect != nil {
		effect()
	}
	return resp.Output, resp.Err
}

func (m *MockExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	resp, effect := m.record(name, args, true)
	if effect != nil {
		effect()
	}
	return resp.Err
}

func (m *MockExecutor) ReplaceProcess(name string, args ...string) error {
	m.record(name, args, true)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceProcessErr != nil {
		return m.ReplaceProcessErr
	}
	// In tests, we can't actually replace the process, so just return an error
	// that indicates this was called
	return errors.New("mock: ReplaceProcess called (would exec in real implementation)")
}

// CommandLines returns every recorded command rendered with MockCommand.String.
func (m *MockExecutor) CommandLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.Commands))
	for i, c := range m.Commands {
		lines[i] = c.String()
	}
	return lines
}

// Count returns how many recorded commands start with prefix.
func (m *MockExecutor) Count(prefix string) int {
	n := 0
	for _, line := range m.CommandLines() {
		if line == prefix || strings.HasPrefix(line, prefix+" ") {
			n++
		}
	}
	return n
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
