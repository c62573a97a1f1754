package web

import (
	"fmt"
	"net/http"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/bookstore"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

var (
	usersView    = view{Page: "users", Title: "Users", Nav: "usuarios"}
	userEditView = view{Page: "user_edit", Title: "Edit user", Nav: "usuarios"}
)

type usersPage struct {
	Users   []entity.User
	SelfID  entity.ID
	Message string
}

// CanDelete is false for the signed-in user's own row.
func (p usersPage) CanDelete(u entity.User) bool { return u.ID != p.SelfID }

type userEditPage struct {
	ID      entity.ID
	Draft   entity.UserInput
	Loaded  bool
	Errors  []FieldError
	Message string
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, msg string) {
	ctx := r.Context()
	st := session.FromContext(ctx)
	page := &usersPage{SelfID: st.UserID(), Message: msg, Users: []entity.User{}}

	users, err := s.api.ListUsers(ctx, st.Token())
	switch {
	case s.signOut(w, r, err):
		return
	case bookstore.IsForbidden(err):
		s.denied(w, r)
		return
	case err != nil:
		s.log.Warn("fetch failed", zap.String("entity", "users"), zap.Error(err))
		if page.Message == "" {
			page.Message = fmt.Sprintf("Could not load users: %s.", apiMessage(err))
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	default:
		page.Users = users
	}
	s.views.render(w, r, status, usersView, page)
}

// listUsers serves GET /usuarios.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, "")
}

// deleteUser serves POST /usuarios/{id}/delete. Deleting your own account
// is refused before any API call.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(r.PathValue("id"))
	if err != nil || id == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	st := session.FromContext(ctx)
	if id == st.UserID() {
		s.renderUsers(w, r, http.StatusConflict, "You cannot delete your own account.")
		return
	}

	err = s.api.DeleteUser(ctx, st.Token(), id)
	if s.signOut(w, r, err) {
		return
	}
	if err != nil {
		s.log.Warn("delete failed", zap.String("entity", "user"), zap.Stringer("id", id), zap.Error(err))
		s.renderUsers(w, r, http.StatusBadGateway, fmt.Sprintf("Could not delete the user: %s.", apiMessage(err)))
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// editUser serves GET /usuarios/editar/{id}.
func (s *Server) editUser(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(r.PathValue("id"))
	if err != nil || id == 0 {
		s.notFound(w, r)
		return
	}

	ctx := r.Context()
	u, err := s.api.GetUser(ctx, session.FromContext(ctx).Token(), id)
	switch {
	case s.signOut(w, r, err):
		return
	case bookstore.IsNotFound(err):
		s.notFound(w, r)
		return
	case bookstore.IsForbidden(err):
		s.denied(w, r)
		return
	case err != nil:
		s.log.Warn("fetch failed", zap.String("entity", "user"), zap.Stringer("id", id), zap.Error(err))
		s.views.render(w, r, http.StatusBadGateway, userEditView, &userEditPage{
			ID:      id,
			Message: fmt.Sprintf("Could not load the user: %s.", apiMessage(err)),
		})
		return
	}
	s.views.render(w, r, http.StatusOK, userEditView, &userEditPage{ID: id, Draft: u.Input(), Loaded: true})
}

// updateUser serves POST /usuarios/{id}. An empty password keeps the
// current one.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(r.PathValue("id"))
	if err != nil || id == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	page := &userEditPage{ID: id, Draft: parseUserForm(r.PostForm), Loaded: true}
	if page.Errors = ValidateStruct(page.Draft); len(page.Errors) > 0 {
		page.Message = "Please correct the errors below."
		s.views.render(w, r, http.StatusUnprocessableEntity, userEditView, page)
		return
	}

	ctx := r.Context()
	err = s.api.UpdateUser(ctx, session.FromContext(ctx).Token(), id, page.Draft)
	if s.signOut(w, r, err) {
		return
	}
	if err != nil {
		s.log.Warn("save failed", zap.String("entity", "user"), zap.Stringer("id", id), zap.Error(err))
		page.Message = fmt.Sprintf("Could not save the user: %s.", apiMessage(err))
		s.views.render(w, r, http.StatusBadGateway, userEditView, page)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}
