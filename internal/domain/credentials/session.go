// Package credentials establishes and tears down cloud provider
// authentication state for a single run.
package credentials

// Provider identifies a cloud provider within a session.
type Provider string

const (
	// ProviderAzure is the Azure service-principal provider.
	ProviderAzure Provider = "azure"
	// ProviderAWS is the AWS access-key provider.
	ProviderAWS Provider = "aws"
)

// Session holds the live authentication material for zero or more
// providers: an environment overlay handed to every terraform invocation
// and the credential files written on disk. The process environment is
// never mutated; discarding the overlay is how credentials stop existing.
type Session struct {
	env        []string
	files      []string
	configured map[Provider]bool
	released   bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{configured: make(map[Provider]bool)}
}

// Environ returns the environment overlay for sub-commands. Empty after
// release.
func (s *Session) Environ() []string {
	out := make([]string, len(s.env))
	copy(out, s.env)
	return out
}

// Files returns the credential files this session created.
func (s *Session) Files() []string {
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

// Configured reports whether the given provider was set up in this session.
func (s *Session) Configured(p Provider) bool {
	return s != nil && s.configured[p]
}

// Released reports whether the session has been cleaned up.
func (s *Session) Released() bool {
	return s.released
}

func (s *Session) setEnv(key, value string) {
	s.env = append(s.env, key+"="+value)
}

func (s *Session) trackFile(path string) {
	s.files = append(s.files, path)
}

func (s *Session) markConfigured(p Provider) {
	s.configured[p] = true
}
