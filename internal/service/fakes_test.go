package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/events"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/internal/repository"
)

// store is an in-memory stand-in for every repository. A single mutex plays
// the part of the row locks taken by the gorm implementation.
type store struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]*models.User
	hospitals  map[uint]*models.Hospital
	ambulances map[uint]*models.Ambulance
	requests   map[uint]*models.Request
	sessions   map[string]*models.Session
	audits     []string

	// createUserErr is returned once by CreateUser, to simulate a lost insert race.
	createUserErr error
	racedUser     *models.User
}

func newStore() *store {
	return &store{
		users:      map[uint]*models.User{},
		hospitals:  map[uint]*models.Hospital{},
		ambulances: map[uint]*models.Ambulance{},
		requests:   map[uint]*models.Request{},
		sessions:   map[string]*models.Session{},
	}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *store) addHospital(name string, lat, lng float64) *models.Hospital {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &models.Hospital{ID: s.id(), Name: name, LocationLat: lat, LocationLng: lng}
	s.hospitals[h.ID] = h
	return h
}

func (s *store) addAmbulance(hospitalID uint, status models.AmbulanceStatus) *models.Ambulance {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &models.Ambulance{ID: s.id(), HospitalID: hospitalID, Status: status}
	s.ambulances[a.ID] = a
	return a
}

func (s *store) addUser(email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), Name: "Test", Email: email, Phone: "0712345678"}
	s.users[u.ID] = u
	return u
}

func (s *store) ambulance(id uint) models.Ambulance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ambulances[id]
}

func (s *store) request(id uint) models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.requests[id]
}

func (s *store) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// users

func (s *store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *store) FindUserByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phone {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *store) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createUserErr != nil {
		err := s.createUserErr
		s.createUserErr = nil
		if s.racedUser != nil {
			s.racedUser.ID = s.id()
			s.users[s.racedUser.ID] = s.racedUser
		}
		return err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrUserExists
		}
	}
	user.ID = s.id()
	c := *user
	s.users[user.ID] = &c
	return nil
}

// hospitals

func (s *store) GetAllHospitals(_ context.Context) ([]models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hospitals := make([]models.Hospital, 0, len(s.hospitals))
	for _, h := range s.hospitals {
		hospitals = append(hospitals, *h)
	}
	sort.Slice(hospitals, func(i, j int) bool { return hospitals[i].Name < hospitals[j].Name })
	return hospitals, nil
}

func (s *store) ListFleet(_ context.Context) ([]models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hospitals := make([]models.Hospital, 0, len(s.hospitals))
	for _, h := range s.hospitals {
		c := *h
		c.Ambulances = nil
		for _, a := range s.ambulances {
			if a.HospitalID == h.ID {
				c.Ambulances = append(c.Ambulances, *a)
			}
		}
		sort.Slice(c.Ambulances, func(i, j int) bool { return c.Ambulances[i].ID < c.Ambulances[j].ID })
		hospitals = append(hospitals, c)
	}
	sort.Slice(hospitals, func(i, j int) bool { return hospitals[i].ID < hospitals[j].ID })
	return hospitals, nil
}

func (s *store) GetHospitalByID(_ context.Context, id uint) (*models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.hospitals[id]; ok {
		c := *h
		return &c, nil
	}
	return nil, apperrors.ErrHospitalNotFound
}

func (s *store) GetHospitalByName(_ context.Context, name string) (*models.Hospital, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hospitals {
		if strings.EqualFold(h.Name, name) {
			c := *h
			return &c, nil
		}
	}
	return nil, apperrors.ErrHospitalNotFound
}

func (s *store) CreateHospitalWithFleet(_ context.Context, hospital *models.Hospital, fleet []models.Ambulance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hospitals {
		if strings.EqualFold(h.Name, hospital.Name) {
			return apperrors.ErrHospitalExists
		}
	}
	hospital.ID = s.id()
	c := *hospital
	s.hospitals[hospital.ID] = &c
	for i := range fleet {
		fleet[i].ID = s.id()
		fleet[i].HospitalID = hospital.ID
		a := fleet[i]
		s.ambulances[a.ID] = &a
	}
	hospital.Ambulances = fleet
	return nil
}

// ambulances

func (s *store) CreateAmbulance(_ context.Context, ambulance *models.Ambulance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ambulance.ID = s.id()
	c := *ambulance
	s.ambulances[ambulance.ID] = &c
	return nil
}

func (s *store) GetAmbulanceByID(_ context.Context, id uint) (*models.Ambulance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.ambulances[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, apperrors.ErrAmbulanceNotFound
}

func (s *store) GetAmbulancesByHospitalID(_ context.Context, hospitalID uint, status *models.AmbulanceStatus) ([]models.Ambulance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ambulances []models.Ambulance
	for _, a := range s.ambulances {
		if a.HospitalID == hospitalID && (status == nil || a.Status == *status) {
			ambulances = append(ambulances, *a)
		}
	}
	sort.Slice(ambulances, func(i, j int) bool { return ambulances[i].ID < ambulances[j].ID })
	return ambulances, nil
}

func (s *store) FindDriver(_ context.Context, hospitalID uint, driverName, driverContact string) (*models.Ambulance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.ambulances {
		if a.HospitalID == hospitalID && strings.EqualFold(a.DriverName, driverName) && strings.EqualFold(a.DriverContact, driverContact) {
			c := *a
			return &c, nil
		}
	}
	return nil, apperrors.ErrAmbulanceNotFound
}

func (s *store) SetStatus(_ context.Context, id uint, fn repository.StatusFunc) (*models.Ambulance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.ambulances[id]
	if !ok {
		return nil, apperrors.ErrAmbulanceNotFound
	}
	var active int64
	for _, r := range s.requests {
		if r.AmbulanceID == id && r.Status.IsActive() {
			active++
		}
	}
	ambulance := *stored
	if err := fn(&ambulance, active); err != nil {
		return nil, err
	}
	*stored = ambulance
	return &ambulance, nil
}

// setAmbulanceStatus writes a status directly, bypassing the lifecycle rules.
func (s *store) setAmbulanceStatus(id uint, status models.AmbulanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambulances[id].Status = status
}

func (s *store) UpdateLocation(_ context.Context, id uint, lat, lng float64) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ambulances[id]
	if !ok {
		return nil, apperrors.ErrAmbulanceNotFound
	}
	a.LocationLat, a.LocationLng = lat, lng
	var requests []models.Request
	for _, r := range s.requests {
		if r.AmbulanceID == id && r.Status == models.RequestAccepted {
			la, ln := lat, lng
			r.AmbulanceLat, r.AmbulanceLng = &la, &ln
			requests = append(requests, *r)
		}
	}
	return requests, nil
}

// requests

func (s *store) CreateRequest(_ context.Context, request *models.Request, reserve repository.ReserveFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.ambulances[request.AmbulanceID]
	if !ok {
		return apperrors.ErrAmbulanceNotFound
	}
	ambulance := *stored
	if err := reserve(&ambulance); err != nil {
		return err
	}
	*stored = ambulance
	request.ID = s.id()
	request.CreatedAt = time.Now()
	c := *request
	s.requests[request.ID] = &c
	request.Ambulance = &ambulance
	return nil
}

func (s *store) Transition(_ context.Context, id uint, fn repository.TransitionFunc) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	storedRequest, ok := s.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	storedAmbulance, ok := s.ambulances[storedRequest.AmbulanceID]
	if !ok {
		return nil, apperrors.ErrAmbulanceNotFound
	}
	request, ambulance := *storedRequest, *storedAmbulance
	if err := fn(&request, &ambulance); err != nil {
		return nil, err
	}
	*storedRequest, *storedAmbulance = request, ambulance
	request.Ambulance = &ambulance
	return &request, nil
}

func (s *store) GetRequestByID(_ context.Context, id uint) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, apperrors.ErrRequestNotFound
}

func (s *store) filterRequests(keep func(*models.Request) bool) []models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.Request
	for _, r := range s.requests {
		if keep(r) {
			requests = append(requests, *r)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID > requests[j].ID })
	return requests
}

func (s *store) GetRequestsByUserID(_ context.Context, userID uint) ([]models.Request, error) {
	return s.filterRequests(func(r *models.Request) bool { return r.UserID == userID }), nil
}

func (s *store) GetRequestsByHospitalID(_ context.Context, hospitalID uint, status *models.RequestStatus) ([]models.Request, error) {
	return s.filterRequests(func(r *models.Request) bool {
		return r.HospitalID == hospitalID && (status == nil || r.Status == *status)
	}), nil
}

func (s *store) GetRequestsByAmbulanceID(_ context.Context, ambulanceID uint, status *models.RequestStatus) ([]models.Request, error) {
	return s.filterRequests(func(r *models.Request) bool {
		return r.AmbulanceID == ambulanceID && (status == nil || r.Status == *status)
	}), nil
}

// sessions

func (s *store) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.id()
	c := *session
	s.sessions[session.TokenHash] = &c
	return nil
}

func (s *store) FindSessionByHash(_ context.Context, hash string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[hash]; ok && !session.Revoked {
		c := *session
		return &c, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (s *store) RevokeSessionByHash(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[hash]; ok {
		session.Revoked = true
	}
	return nil
}

func (s *store) DeleteStaleSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for hash, session := range s.sessions {
		if session.Revoked || now.After(session.ExpiresAt) {
			delete(s.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

// audit

func (s *store) CreateAuditLog(_ context.Context, _ *uint, action string, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, action)
	return nil
}

// recordingBus captures published events.
type recordingBus struct {
	mu     sync.Mutex
	events []*events.RequestEvent
}

func (b *recordingBus) Publish(_ context.Context, event *events.RequestEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan *events.RequestEvent, error) {
	return nil, nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, len(b.events))
	for i, e := range b.events {
		types[i] = e.Type
	}
	return types
}

var (
	_ UserStore      = (*store)(nil)
	_ HospitalStore  = (*store)(nil)
	_ AmbulanceStore = (*store)(nil)
	_ RequestStore   = (*store)(nil)
	_ SessionStore   = (*store)(nil)
	_ AuditStore     = (*store)(nil)
	_ events.Bus     = (*recordingBus)(nil)
)
