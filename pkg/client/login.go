package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Guest login states, in the order the poll walks through them.
const (
	GuestIdle     = 0
	GuestPending  = 1
	GuestAccepted = 2
	GuestRejected = 3
)

// DefaultPollInterval is how often the guest-login status is polled.
const DefaultPollInterval = 2 * time.Second

// CredentialStore caches the guest password across sessions, taking the
// place of the browser's local storage.
type CredentialStore interface {
	Password() string
	SetPassword(password string)
}

// MemoryCredentialStore is an in-memory CredentialStore.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	password string
}

func (s *MemoryCredentialStore) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password
}

func (s *MemoryCredentialStore) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = password
}

// LoginView drives the login screen: a normal credential login with an
// optional second-factor step, and the guest flow that polls a token until
// an admin decides. The poller is an explicit scheduled task: it stops on
// terminal status, on error, and on Close.
type LoginView struct {
	client       *Client
	log          *zap.Logger
	creds        CredentialStore
	pollInterval time.Duration

	mu           sync.Mutex
	username     string
	password     string
	code         string
	codeRequired bool
	loggedIn     bool
	guestStatus  int
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewLoginView creates a LoginView. A nil store disables password caching.
func NewLoginView(client *Client, creds CredentialStore, log *zap.Logger) *LoginView {
	if creds == nil {
		creds = &MemoryCredentialStore{}
	}
	return &LoginView{
		client:       client,
		log:          log,
		creds:        creds,
		pollInterval: DefaultPollInterval,
	}
}

// SetCredentials fills the login form.
func (v *LoginView) SetCredentials(username, password string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.username = username
	v.password = password
}

// SetCode fills the second-factor code field.
func (v *LoginView) SetCode(code string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.code = code
}

// CodeRequired reports whether the server asked for a second factor.
func (v *LoginView) CodeRequired() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.codeRequired
}

// LoggedIn reports whether a login has succeeded.
func (v *LoginView) LoggedIn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loggedIn
}

// GuestStatus returns the current guest-login state.
func (v *LoginView) GuestStatus() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.guestStatus
}

// Login submits the current credentials. A ValidationCodeRequired answer
// flips CodeRequired instead of failing the screen.
func (v *LoginView) Login(ctx context.Context) error {
	v.mu.Lock()
	username, password, code := v.username, v.password, v.code
	v.mu.Unlock()

	err := v.client.Login(ctx, username, password, code)
	if err != nil {
		if IsValidationCodeRequired(err) {
			v.mu.Lock()
			v.codeRequired = true
			v.mu.Unlock()
		}
		return err
	}

	v.mu.Lock()
	v.loggedIn = true
	v.mu.Unlock()
	return nil
}

// LoginAsGuest starts polling the guest-login status for the token. An
// accepted answer fills the credentials (falling back to the cached
// password when the server omits one) and performs the login. Rejection
// stops the poll; a transport failure resets the state to idle and stops.
func (v *LoginView) LoginAsGuest(ctx context.Context, token string) {
	v.mu.Lock()
	if v.done != nil {
		select {
		case <-v.done:
			// Previous poll already finished, a new one may start.
		default:
			v.mu.Unlock()
			return
		}
	}
	pollCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})
	v.guestStatus = GuestPending
	done := v.done
	v.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		ticker := time.NewTicker(v.pollInterval)
		defer ticker.Stop()

		for {
			if stop := v.pollOnce(pollCtx, token); stop {
				return
			}
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// pollOnce runs one poll round and reports whether polling should stop.
func (v *LoginView) pollOnce(ctx context.Context, token string) bool {
	resp, err := v.client.PollGuestLogin(ctx, token)
	if err != nil {
		v.log.Warn("guest login poll failed", zap.Error(err))
		v.mu.Lock()
		v.guestStatus = GuestIdle
		v.mu.Unlock()
		return true
	}

	v.mu.Lock()
	v.guestStatus = resp.Status
	v.mu.Unlock()

	switch resp.Status {
	case GuestAccepted:
		password := resp.Password
		if password == "" {
			password = v.creds.Password()
		}
		if resp.Username != "" && password != "" {
			if resp.Password != "" {
				v.creds.SetPassword(resp.Password)
			}
			v.SetCredentials(resp.Username, password)
			if err := v.Login(ctx); err != nil {
				v.log.Warn("guest login failed", zap.Error(err))
			}
		}
		return true
	case GuestRejected:
		return true
	case GuestPending:
		return false
	default:
		return true
	}
}

// PasswordLost asks for a recovery mail for the given username.
func (v *LoginView) PasswordLost(ctx context.Context, username string) error {
	return v.client.PasswordLost(ctx, username)
}

// Close stops a running guest poll and waits for it to finish.
func (v *LoginView) Close() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.cancel = nil
	v.done = nil
	v.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
