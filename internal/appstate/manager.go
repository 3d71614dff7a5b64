// Package appstate owns the user, the design gallery and the transient
// loading/error status for the lifetime of the process.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"interiorai/internal/domain"
	"interiorai/internal/imagegen"
	"interiorai/internal/media"
	"interiorai/internal/persist"
)

const (
	DefaultFreeDailyLimit = 3
	DefaultQuotaWindow    = 24 * time.Hour
)

// Options wires the manager to its collaborators. Gateway and Generator are
// required; a nil Picker denies every acquisition.
type Options struct {
	Gateway   domain.PersistenceGateway
	Generator imagegen.Generator
	Picker    media.Picker
	Logger    zerolog.Logger

	Clock       func() time.Time
	NewGuestID  func() string
	NewDeviceID func() string

	// FreeDailyLimit caps generations per quota window for free users. Zero
	// selects DefaultFreeDailyLimit.
	FreeDailyLimit int
	QuotaWindow    time.Duration
}

// Status is the transient UI status. An empty Error means no error.
type Status struct {
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// State is a point-in-time copy of everything the manager owns.
type State struct {
	User    domain.User              `json:"user"`
	Designs []domain.GeneratedDesign `json:"designs"`
	Status  Status                   `json:"status"`
}

// Manager is the single source of truth for user and design data. Reads hand
// out copies; all writes go through its operations.
type Manager struct {
	gateway   domain.PersistenceGateway
	generator imagegen.Generator
	picker    media.Picker
	logger    zerolog.Logger

	now         func() time.Time
	newGuestID  func() string
	newDeviceID func() string
	limit       int
	window      time.Duration

	// genMu serializes generation so the quota check, the remote calls and
	// the usage increment form one critical section.
	genMu sync.Mutex

	mu      sync.RWMutex
	user    domain.User
	designs []domain.GeneratedDesign
	status  Status
	// readOnly is set when storage holds records from a newer schema; they
	// are used in memory but never rewritten.
	readOnly bool
}

func New(opts Options) (*Manager, error) {
	if opts.Gateway == nil {
		return nil, errors.New("appstate: persistence gateway is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("appstate: generator is required")
	}
	m := &Manager{
		gateway:     opts.Gateway,
		generator:   opts.Generator,
		picker:      opts.Picker,
		logger:      opts.Logger.With().Str("component", "appstate").Logger(),
		now:         opts.Clock,
		newGuestID:  opts.NewGuestID,
		newDeviceID: opts.NewDeviceID,
		limit:       opts.FreeDailyLimit,
		window:      opts.QuotaWindow,
		designs:     []domain.GeneratedDesign{},
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newGuestID == nil {
		m.newGuestID = func() string { return "guest_" + uuid.NewString() }
	}
	if m.newDeviceID == nil {
		m.newDeviceID = func() string { return "device_" + uuid.NewString() }
	}
	if m.limit <= 0 {
		m.limit = DefaultFreeDailyLimit
	}
	if m.window <= 0 {
		m.window = DefaultQuotaWindow
	}
	m.user = domain.User{SchemaVersion: domain.SchemaVersion, Subscription: domain.SubscriptionFree, LastReset: m.clock()}
	return m, nil
}

func (m *Manager) clock() time.Time {
	return m.now().UTC()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{User: m.user, Designs: domain.CloneDesigns(m.designs), Status: m.status}
}

func (m *Manager) User() domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *Manager) Designs() []domain.GeneratedDesign {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.CloneDesigns(m.designs)
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// FreeDailyLimit reports the configured allowance for free users.
func (m *Manager) FreeDailyLimit() int {
	return m.limit
}

// Initialize loads persisted state, bootstraps a guest user on first launch
// and resets the usage counter once the quota window has elapsed. Storage
// read failures degrade to defaults; only a cancelled context fails it.
func (m *Manager) Initialize(ctx context.Context) error {
	m.SetLoading(true)
	defer m.SetLoading(false)

	if changed, err := m.gateway.Migrate(ctx); errors.Is(err, persist.ErrFutureSchema) {
		m.logger.Warn().Err(err).Msg("stored records are newer than this build, keeping them read-only")
		m.mu.Lock()
		m.readOnly = true
		m.mu.Unlock()
	} else if err != nil {
		m.logger.Warn().Err(err).Msg("schema migration failed")
	} else if changed {
		m.logger.Info().Int("schema", domain.SchemaVersion).Msg("migrated persisted records")
	}

	var (
		user       *domain.User
		userErr    error
		designs    []domain.GeneratedDesign
		designsErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() { user, userErr = m.gateway.User(ctx) })
	wg.Go(func() { designs, designsErr = m.gateway.Designs(ctx) })
	wg.Wait()

	if err := ctx.Err(); err != nil {
		m.logger.Error().Err(err).Msg("initialize interrupted")
		m.SetError(domain.MsgInitFailed)
		return fmt.Errorf("%w: %v", domain.ErrInitFailed, err)
	}
	if userErr != nil {
		m.logger.Warn().Err(userErr).Msg("load user failed, starting as guest")
		user = nil
	}
	if designsErr != nil {
		m.logger.Warn().Err(designsErr).Msg("load designs failed, starting with empty gallery")
	} else if designs != nil {
		m.mu.Lock()
		m.designs = designs
		m.mu.Unlock()
	}

	if user != nil {
		m.mu.Lock()
		m.user = *user
		m.mu.Unlock()
	} else if err := m.bootstrapGuest(ctx); err != nil {
		m.logger.Error().Err(err).Msg("create guest user failed")
		m.SetError(domain.MsgGuestFailed)
		return fmt.Errorf("%w: %v", domain.ErrGuestBootstrap, err)
	}

	now := m.clock()
	if m.User().QuotaDue(now, m.window) {
		m.logger.Debug().Msg("quota window elapsed, resetting usage")
		m.ResetUsage(ctx)
	}
	return nil
}

// bootstrapGuest creates the guest account, reusing the persisted device id
// when one exists.
func (m *Manager) bootstrapGuest(ctx context.Context) error {
	deviceID, err := m.gateway.DeviceID(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("load device id failed")
	}
	if deviceID == "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		deviceID = m.newDeviceID()
		if err := m.gateway.SaveDeviceID(ctx, deviceID); err != nil {
			m.logger.Warn().Err(err).Msg("save device id failed")
		}
	}

	guest := domain.NewGuest(m.newGuestID(), deviceID, m.clock())
	m.mu.Lock()
	m.user = guest
	m.mu.Unlock()
	m.persistUser(ctx, guest)
	m.logger.Info().Str("user", guest.ID).Str("device", deviceID).Msg("guest user created")
	return nil
}

// RequestGeneration redesigns imageRef in styleID and records the result.
// Free users past their allowance are refused before any network call. On
// failure the gallery and usage counter are left untouched.
func (m *Manager) RequestGeneration(ctx context.Context, imageRef, styleID string) (domain.GeneratedDesign, error) {
	m.genMu.Lock()
	defer m.genMu.Unlock()

	m.mu.Lock()
	if m.user.LimitReached(m.limit) {
		m.status.Error = domain.MsgLimitReached
		m.mu.Unlock()
		return domain.GeneratedDesign{}, domain.ErrQuotaExceeded
	}
	m.status = Status{IsLoading: true}
	m.mu.Unlock()
	defer m.SetLoading(false)

	log := m.logger.With().Str("style", styleID).Logger()

	result, err := m.generator.GenerateImage(ctx, imagegen.GenerateRequest{Image: imageRef, Style: styleID})
	if err != nil {
		log.Error().Err(err).Int("status", imagegen.StatusOf(err)).Msg("generate image failed")
		m.SetError(domain.MsgGenerationFailed)
		return domain.GeneratedDesign{}, domain.ErrGenerationFailed
	}
	info, err := m.generator.StyleInfo(ctx, styleID)
	if err != nil {
		log.Error().Err(err).Int("status", imagegen.StatusOf(err)).Msg("style info failed")
		m.SetError(domain.MsgGenerationFailed)
		return domain.GeneratedDesign{}, domain.ErrGenerationFailed
	}

	design := domain.GeneratedDesign{
		ID:             result.ID,
		OriginalImage:  imageRef,
		GeneratedImage: result.ImageURL,
		Style:          styleID,
		Description:    info.Description,
		CreatedAt:      m.clock(),
	}

	m.mu.Lock()
	m.designs = domain.Prepend(m.designs, design)
	designs := domain.CloneDesigns(m.designs)
	m.user = m.user.WithUsageIncrement()
	user := m.user
	m.mu.Unlock()

	// The in-memory state is already committed; persist even if the caller
	// has given up waiting.
	persistCtx := context.WithoutCancel(ctx)
	m.persistDesigns(persistCtx, designs)
	m.persistUser(persistCtx, user)

	log.Info().Str("design", design.ID).Int("usage", user.UsageCount).Msg("design generated")
	return design, nil
}

// AddDesign prepends d to the gallery and persists it.
func (m *Manager) AddDesign(ctx context.Context, d domain.GeneratedDesign) {
	m.mu.Lock()
	m.designs = domain.Prepend(m.designs, d)
	designs := domain.CloneDesigns(m.designs)
	m.mu.Unlock()
	m.persistDesigns(ctx, designs)
}

// RemoveDesign drops the first design with id. Unknown ids are ignored.
func (m *Manager) RemoveDesign(ctx context.Context, id string) {
	m.mu.Lock()
	next, removed := domain.Without(m.designs, id)
	if !removed {
		m.mu.Unlock()
		return
	}
	m.designs = next
	designs := domain.CloneDesigns(next)
	m.mu.Unlock()
	m.persistDesigns(ctx, designs)
}

// AcquireImage asks for permission and lets the user pick a photo. It returns
// an empty reference and a nil error when the user cancels.
func (m *Manager) AcquireImage(ctx context.Context, source media.Source) (string, error) {
	src, err := media.ParseSource(string(source))
	if err != nil {
		m.SetError(domain.MsgLibraryFailed)
		return "", err
	}
	permissionMsg, failureMsg := domain.MsgLibraryPermission, domain.MsgLibraryFailed
	if src == media.SourceCamera {
		permissionMsg, failureMsg = domain.MsgCameraPermission, domain.MsgCameraFailed
	}
	if m.picker == nil {
		m.SetError(permissionMsg)
		return "", domain.ErrPermissionDenied
	}

	log := m.logger.With().Str("source", string(src)).Logger()
	granted, err := m.picker.RequestPermission(ctx, src)
	if err != nil {
		log.Error().Err(err).Msg("permission request failed")
		m.SetError(failureMsg)
		return "", fmt.Errorf("%w: %v", domain.ErrAcquisitionFailed, err)
	}
	if !granted {
		m.SetError(permissionMsg)
		return "", domain.ErrPermissionDenied
	}

	ref, ok, err := m.picker.Pick(ctx, src)
	if err != nil {
		log.Error().Err(err).Msg("pick image failed")
		m.SetError(failureMsg)
		return "", fmt.Errorf("%w: %v", domain.ErrAcquisitionFailed, err)
	}
	if !ok {
		log.Debug().Msg("pick cancelled")
		return "", nil
	}
	return ref, nil
}

// SetUser replaces the active user and persists it.
func (m *Manager) SetUser(ctx context.Context, user domain.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	m.persistUser(ctx, user)
}

// ResetUsage clears the usage counter and starts a new quota window now.
func (m *Manager) ResetUsage(ctx context.Context) {
	m.mu.Lock()
	m.user = m.user.WithUsageReset(m.clock())
	user := m.user
	m.mu.Unlock()
	m.persistUser(ctx, user)
}

// Reset wipes every persisted record and starts over as a new guest.
func (m *Manager) Reset(ctx context.Context) error {
	cleared := true
	if err := m.gateway.ClearAll(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("clear storage failed")
		cleared = false
	}
	m.mu.Lock()
	m.designs = []domain.GeneratedDesign{}
	m.status = Status{}
	if cleared {
		m.readOnly = false
	}
	m.mu.Unlock()
	if err := m.bootstrapGuest(ctx); err != nil {
		m.SetError(domain.MsgGuestFailed)
		return fmt.Errorf("%w: %v", domain.ErrGuestBootstrap, err)
	}
	return nil
}

func (m *Manager) SetLoading(loading bool) {
	m.mu.Lock()
	m.status.IsLoading = loading
	m.mu.Unlock()
}

func (m *Manager) SetError(msg string) {
	m.mu.Lock()
	m.status.Error = msg
	m.mu.Unlock()
}

func (m *Manager) ClearError() {
	m.SetError("")
}

func (m *Manager) writable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.readOnly
}

func (m *Manager) persistUser(ctx context.Context, user domain.User) {
	if !m.writable() {
		m.logger.Debug().Str("user", user.ID).Msg("storage is read-only, user not persisted")
		return
	}
	if err := m.gateway.SaveUser(ctx, user); err != nil {
		m.logger.Warn().Err(err).Str("user", user.ID).Msg("persist user failed")
	}
}

func (m *Manager) persistDesigns(ctx context.Context, designs []domain.GeneratedDesign) {
	if !m.writable() {
		m.logger.Debug().Int("count", len(designs)).Msg("storage is read-only, designs not persisted")
		return
	}
	if err := m.gateway.SaveDesigns(ctx, designs); err != nil {
		m.logger.Warn().Err(err).Int("count", len(designs)).Msg("persist designs failed")
	}
}
