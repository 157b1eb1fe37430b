package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authuc "github.com/kailas-cloud/tastebud/internal/usecase/auth"
	healthuc "github.com/kailas-cloud/tastebud/internal/usecase/health"
)

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	u, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := s.authenticator.Authenticate(r.Context(), authuc.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     sess.Token,
		TokenType: "Bearer",
		Session:   sessionToResponse(sess),
	})
}

// Logout handles POST /auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	if err := s.auth.Logout(r.Context(), sess); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// SearchRestaurants handles GET /restaurants.
func (s *Server) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	listings, err := s.catalog.Search(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingsToResponse(listings))
}

// RestaurantFacets handles GET /restaurants/facets.
func (s *Server) RestaurantFacets(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalog.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, facetsToResponse(f))
}

// GetRestaurant handles GET /restaurants/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	l, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(l))
}

// GetPreferences handles GET /me/preferences.
func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	p, err := s.preferences.Get(r.Context(), sess.UserID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// UpdatePreferences handles PUT /me/preferences.
func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	p, err := profileFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	sess, _ := SessionFromContext(r.Context())
	if err := s.preferences.Update(r.Context(), sess.UserID, p); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(&p))
}

// Recommendations handles GET /me/recommendations?cuisine=.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	listings, err := s.recommend.For(r.Context(), sess.UserID, r.URL.Query().Get("cuisine"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingsToResponse(listings))
}

// ListUsers handles GET /admin/users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, usersToResponse(users))
}

// DeleteUser handles DELETE /admin/users/{id}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	if err := s.accounts.Delete(r.Context(), sess.UserID, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserStats handles GET /admin/stats.
func (s *Server) UserStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.accounts.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	byRole := make(map[string]int, len(st.ByRole))
	for role, n := range st.ByRole {
		byRole[string(role)] = n
	}
	writeJSON(w, http.StatusOK, StatsResponse{Total: st.Total, ByRole: byRole})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
