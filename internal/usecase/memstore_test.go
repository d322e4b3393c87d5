package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resort-booking/internal/data/entity"
	"resort-booking/internal/data/repository"
	"resort-booking/internal/reservation"
	"resort-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is a Transactor over private copies of the booking tables.
// By default transactions run one at a time, which is the strongest schedule
// SERIALIZABLE allows. With optimistic set they run concurrently on snapshots
// and a commit fails with 40001 when a room or facility the transaction read
// or wrote was committed to after its snapshot, which is how Postgres SSI
// resolves the same race.
type memStore struct {
	mu sync.Mutex

	users            map[uuid.UUID]*entity.User
	rooms            map[uuid.UUID]*entity.Room
	facilities       map[uuid.UUID]*entity.Facility
	bookings         map[uuid.UUID]*entity.Booking
	facilityBookings map[uuid.UUID]*entity.FacilityBooking
	// versions counts commits per room or facility ID.
	versions map[uuid.UUID]int

	optimistic bool
	// beforeCommit runs once, without the lock, between fn and the commit of
	// the next optimistic write transaction.
	beforeCommit func()

	// abortCommits makes the next N commits fail with a serialization error.
	abortCommits int
	alwaysAbort  bool
	// createErr and createFacilityErr are returned by the next insert.
	createErr         error
	createFacilityErr error

	txCount     int
	readTxCount int
	violations  []string
}

func newMemStore() *memStore {
	return &memStore{
		users:            make(map[uuid.UUID]*entity.User),
		rooms:            make(map[uuid.UUID]*entity.Room),
		facilities:       make(map[uuid.UUID]*entity.Facility),
		bookings:         make(map[uuid.UUID]*entity.Booking),
		facilityBookings: make(map[uuid.UUID]*entity.FacilityBooking),
		versions:         make(map[uuid.UUID]int),
	}
}

func (s *memStore) addUser(role entity.UserRole) uuid.UUID {
	id := uuid.New()
	s.users[id] = &entity.User{
		Base:     entity.Base{ID: id},
		Username: "user-" + id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	return id
}

func (s *memStore) addRoom(priceCents int64, capacity int) uuid.UUID {
	id := uuid.New()
	s.rooms[id] = &entity.Room{
		Base:       entity.Base{ID: id},
		ResortID:   uuid.New(),
		Name:       "Room " + id.String()[:4],
		PriceCents: priceCents,
		Capacity:   capacity,
	}
	return id
}

func (s *memStore) addFacility(active bool) uuid.UUID {
	id := uuid.New()
	s.facilities[id] = &entity.Facility{
		Base:     entity.Base{ID: id},
		ResortID: uuid.New(),
		Name:     "Spa " + id.String()[:4],
		IsActive: active,
	}
	return id
}

func (s *memStore) committed() *repository.Repository {
	return &repository.Repository{
		User:            memUsers{s.users},
		Room:            memRooms{s.rooms},
		Facility:        memFacilities{s.facilities},
		Booking:         &memBookings{mu: &s.mu, rows: s.bookings},
		FacilityBooking: &memFacilityBookings{mu: &s.mu, rows: s.facilityBookings},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	return s.run(ctx, false, fn)
}

func (s *memStore) WithinReadTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	return s.run(ctx, true, fn)
}

// memTx is one transaction's snapshot and the IDs it touched.
type memTx struct {
	readOnly         bool
	versions         map[uuid.UUID]int
	bookings         *memBookings
	facilityBookings *memFacilityBookings
}

func (tx *memTx) repo(s *memStore) *repository.Repository {
	return &repository.Repository{
		User:            memUsers{s.users},
		Room:            memRooms{s.rooms},
		Facility:        memFacilities{s.facilities},
		Booking:         tx.bookings,
		FacilityBooking: tx.facilityBookings,
	}
}

func (s *memStore) run(ctx context.Context, readOnly bool, fn func(repo *repository.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.optimistic {
		s.mu.Lock()
		defer s.mu.Unlock()
		tx := s.beginLocked(readOnly)
		if err := fn(tx.repo(s)); err != nil {
			return err
		}
		return s.commitLocked(tx)
	}

	s.mu.Lock()
	tx := s.beginLocked(readOnly)
	s.mu.Unlock()

	if err := fn(tx.repo(s)); err != nil {
		return err
	}

	if !readOnly {
		s.mu.Lock()
		hook := s.beforeCommit
		s.beforeCommit = nil
		s.mu.Unlock()
		if hook != nil {
			hook()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(tx)
}

func (s *memStore) beginLocked(readOnly bool) *memTx {
	if readOnly {
		s.readTxCount++
	} else {
		s.txCount++
	}

	bookings := make(map[uuid.UUID]*entity.Booking, len(s.bookings))
	for id, b := range s.bookings {
		c := *b
		bookings[id] = &c
	}
	facilityBookings := make(map[uuid.UUID]*entity.FacilityBooking, len(s.facilityBookings))
	for id, b := range s.facilityBookings {
		c := *b
		facilityBookings[id] = &c
	}
	versions := make(map[uuid.UUID]int, len(s.versions))
	for id, v := range s.versions {
		versions[id] = v
	}

	// insert failures are armed for the next write transaction only
	var createErr, createFacilityErr error
	if !readOnly {
		createErr, createFacilityErr = s.createErr, s.createFacilityErr
		s.createErr, s.createFacilityErr = nil, nil
	}

	tx := &memTx{
		readOnly: readOnly,
		versions: versions,
		bookings: &memBookings{
			mu:        noLock{},
			rows:      bookings,
			createErr: createErr,
			readOnly:  readOnly,
			touched:   make(map[uuid.UUID]struct{}),
			dirty:     make(map[uuid.UUID]struct{}),
		},
		facilityBookings: &memFacilityBookings{
			mu:        noLock{},
			rows:      facilityBookings,
			createErr: createFacilityErr,
			readOnly:  readOnly,
			touched:   make(map[uuid.UUID]struct{}),
			dirty:     make(map[uuid.UUID]struct{}),
		},
	}
	return tx
}

func (s *memStore) commitLocked(tx *memTx) error {
	if tx.readOnly {
		return nil
	}

	if s.alwaysAbort || s.abortCommits > 0 {
		if s.abortCommits > 0 {
			s.abortCommits--
		}
		return serializationFailure()
	}

	if s.optimistic {
		for _, touched := range []map[uuid.UUID]struct{}{tx.bookings.touched, tx.facilityBookings.touched} {
			for id := range touched {
				if s.versions[id] != tx.versions[id] {
					return serializationFailure()
				}
			}
		}
	}

	for id := range tx.bookings.dirty {
		b := tx.bookings.rows[id]
		s.bookings[id] = b
		s.versions[b.RoomID]++
	}
	for id := range tx.facilityBookings.dirty {
		b := tx.facilityBookings.rows[id]
		s.facilityBookings[id] = b
		s.versions[b.FacilityID]++
	}
	s.violations = append(s.violations, s.checkInvariantsLocked()...)
	return nil
}

func serializationFailure() error {
	return fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: database.CodeSerializationFailure})
}

func (s *memStore) checkInvariantsLocked() []string {
	var out []string

	var rooms []*entity.Booking
	for _, b := range s.bookings {
		if reservation.IsActive(b.Status) {
			rooms = append(rooms, b)
		}
	}
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			a, b := rooms[i], rooms[j]
			if a.RoomID != b.RoomID {
				continue
			}
			if overlap, _ := reservation.DatesOverlap(a.CheckIn, a.CheckOut, b.CheckIn, b.CheckOut); overlap {
				out = append(out, fmt.Sprintf("room %s: %s overlaps %s", a.RoomID, a.ID, b.ID))
			}
		}
	}

	var slots []*entity.FacilityBooking
	for _, b := range s.facilityBookings {
		if reservation.IsActive(b.Status) {
			slots = append(slots, b)
		}
	}
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.FacilityID != b.FacilityID || !a.Date.Equal(b.Date) {
				continue
			}
			if overlap, _ := reservation.TimesOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime); overlap {
				out = append(out, fmt.Sprintf("facility %s: %s overlaps %s", a.FacilityID, a.ID, b.ID))
			}
		}
	}

	return out
}

func (s *memStore) activeRoomBookings(roomID uuid.UUID) []*entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && reservation.IsActive(b.Status) {
			c := *b
			out = append(out, &c)
		}
	}
	return out
}

func (s *memStore) readTransactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTxCount
}

func (s *memStore) stats() (txCount int, rows int, violations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount, len(s.bookings) + len(s.facilityBookings), append([]string(nil), s.violations...)
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

type memUsers struct{ rows map[uuid.UUID]*entity.User }

func (m memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return m.rows[id], nil
}

type memRooms struct{ rows map[uuid.UUID]*entity.Room }

func (m memRooms) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	return m.rows[id], nil
}

type memFacilities struct {
	rows map[uuid.UUID]*entity.Facility
}

func (m memFacilities) FindByID(_ context.Context, id uuid.UUID) (*entity.Facility, error) {
	return m.rows[id], nil
}

// touchSet records IDs for commit validation. A nil set records nothing.
type touchSet map[uuid.UUID]struct{}

func (t touchSet) add(id uuid.UUID) {
	if t != nil {
		t[id] = struct{}{}
	}
}

func readOnlyTxError() error {
	return &pgconn.PgError{Code: "25006", Message: "cannot execute statement in a read-only transaction"}
}

type memBookings struct {
	mu        sync.Locker
	rows      map[uuid.UUID]*entity.Booking
	createErr error
	readOnly  bool
	// touched holds room IDs read or written, dirty holds booking IDs written.
	touched touchSet
	dirty   touchSet
}

func (m *memBookings) Create(_ context.Context, b *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly {
		return readOnlyTxError()
	}
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	c := *b
	m.rows[b.ID] = &c
	m.touched.add(b.RoomID)
	m.dirty.add(b.ID)
	return nil
}

func (m *memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	m.touched.add(b.RoomID)
	c := *b
	return &c, nil
}

func (m *memBookings) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range m.rows {
		if b.UserID == userID {
			c := *b
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

func (m *memBookings) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.rows {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly {
		return readOnlyTxError()
	}
	b, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.Status = status
	b.UpdatedAt = at
	m.touched.add(b.RoomID)
	m.dirty.add(id)
	return nil
}

func (m *memBookings) FindActiveByRoom(_ context.Context, roomID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched.add(roomID)
	var out []*entity.Booking
	for _, b := range m.rows {
		if b.RoomID == roomID && reservation.IsActive(b.Status) && b.CheckIn.Before(to) && b.CheckOut.After(from) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

type memFacilityBookings struct {
	mu        sync.Locker
	rows      map[uuid.UUID]*entity.FacilityBooking
	createErr error
	readOnly  bool
	// touched holds facility IDs read or written, dirty holds booking IDs written.
	touched touchSet
	dirty   touchSet
}

func (m *memFacilityBookings) Create(_ context.Context, b *entity.FacilityBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly {
		return readOnlyTxError()
	}
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	c := *b
	m.rows[b.ID] = &c
	m.touched.add(b.FacilityID)
	m.dirty.add(b.ID)
	return nil
}

func (m *memFacilityBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.FacilityBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	m.touched.add(b.FacilityID)
	c := *b
	return &c, nil
}

func (m *memFacilityBookings) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.FacilityBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.FacilityBooking
	for _, b := range m.rows {
		if b.UserID == userID {
			c := *b
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

func (m *memFacilityBookings) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.rows {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memFacilityBookings) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly {
		return readOnlyTxError()
	}
	b, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("facility booking %s not found", id)
	}
	b.Status = status
	b.UpdatedAt = at
	m.touched.add(b.FacilityID)
	m.dirty.add(id)
	return nil
}

func (m *memFacilityBookings) FindActiveByFacilityAndDate(_ context.Context, facilityID uuid.UUID, date time.Time) ([]*entity.FacilityBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched.add(facilityID)
	var out []*entity.FacilityBooking
	for _, b := range m.rows {
		if b.FacilityID == facilityID && b.Date.Equal(date) && reservation.IsActive(b.Status) {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type recordedEvent struct {
	key   string
	event BookingEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{key: key, event: v.(BookingEvent)})
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}
