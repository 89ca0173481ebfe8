package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
	"account-auth/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type UsersHandler struct {
	users service.UserService
}

func NewUsersHandler(users service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseUserFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	users, total, err := h.users.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writePaginated(w, "Users retrieved successfully", users, total, filter.Page, filter.Limit)
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "no identity in request")
		return
	}
	user, err := h.users.Get(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User profile retrieved successfully", user)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UsersHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	roles := make(domain.RoleList, 0, len(req.Roles))
	for _, raw := range req.Roles {
		role, err := domain.ParseRole(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		roles = append(roles, role)
	}
	user, err := h.users.UpdateRoles(r.Context(), id, roles)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User roles updated successfully", user)
}

func (h *UsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "User activated successfully")
}

func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "User deactivated successfully")
}

func (h *UsersHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	if err := h.users.SetActive(r.Context(), id, active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, message, nil)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted successfully", nil)
}

func pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func parseUserFilter(r *http.Request) (dto.UserFilter, error) {
	q := r.URL.Query()
	filter := dto.UserFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		SortBy:   q.Get("sortBy"),
		SortDesc: strings.EqualFold(q.Get("order"), "desc"),
		Page:     1,
		Limit:    10,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errInvalidQuery("page", raw)
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return filter, errInvalidQuery("limit", raw)
		}
		filter.Limit = limit
	}
	if raw := q.Get("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return filter, err
		}
		filter.Role = &role
	}
	if raw := q.Get("isEmailVerified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errInvalidQuery("isEmailVerified", raw)
		}
		filter.Verified = &verified
	}
	if raw := q.Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errInvalidQuery("isActive", raw)
		}
		filter.Active = &active
	}
	return filter, nil
}

type queryError struct{ key, value string }

func (e queryError) Error() string { return "invalid query parameter " + e.key + "=" + e.value }

func errInvalidQuery(key, value string) error { return queryError{key: key, value: value} }
