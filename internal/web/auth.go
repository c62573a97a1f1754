package web

import (
	"net/http"

	"bookadmin/internal/entity"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordMismatch   = "Passwords do not match"
	msgRegistered         = "User registered successfully"
	msgRegisterFailed     = "Registration failed"
)

var (
	loginView    = view{Page: "login", Title: "Sign in"}
	registerView = view{Page: "register", Title: "Register"}
)

type loginPage struct {
	Username string
	Message  string
}

type registerPage struct {
	Username string
	IsAdmin  bool
	Errors   []FieldError
	Message  string
	Success  bool
}

func (s *Server) recordAuth(event string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordAuth(event, ok)
	}
}

// loginForm serves GET /login. Signed-in users go straight to /home.
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	s.views.render(w, r, http.StatusOK, loginView, &loginPage{})
}

// login serves POST /login. Every failure shows the same message.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	creds := entity.Credentials{
		Username: formValue(r.PostForm, "username"),
		Password: r.PostForm.Get("password"),
	}
	page := &loginPage{Username: creds.Username, Message: msgInvalidCredentials}

	if errs := ValidateStruct(creds); len(errs) > 0 {
		s.recordAuth("login", false)
		s.views.render(w, r, http.StatusUnprocessableEntity, loginView, page)
		return
	}

	token, err := s.api.Login(r.Context(), creds)
	if err != nil {
		s.log.Info("login failed", zap.String("username", creds.Username), zap.Error(err))
		s.recordAuth("login", false)
		s.views.render(w, r, http.StatusUnauthorized, loginView, page)
		return
	}

	if _, err := s.sessions.Login(w, r, token); err != nil {
		s.log.Error("session start failed", zap.Error(err))
		s.recordAuth("login", false)
		s.views.render(w, r, http.StatusInternalServerError, loginView, page)
		return
	}
	s.recordAuth("login", true)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, r, http.StatusOK, registerView, &registerPage{})
}

// register serves POST /register. A password mismatch is caught before
// any API call. Success does not sign the user in.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	reg := entity.Registration{
		Username: formValue(r.PostForm, "username"),
		Password: r.PostForm.Get("password"),
		IsAdmin:  checkbox(r.PostForm, "isAdmin"),
	}
	page := &registerPage{Username: reg.Username, IsAdmin: reg.IsAdmin}

	if reg.Password != r.PostForm.Get("confirmPassword") {
		page.Errors = []FieldError{{Field: "confirmPassword", Message: msgPasswordMismatch}}
		page.Message = msgPasswordMismatch
		s.views.render(w, r, http.StatusUnprocessableEntity, registerView, page)
		return
	}
	if page.Errors = ValidateStruct(reg); len(page.Errors) > 0 {
		page.Message = msgRegisterFailed
		s.views.render(w, r, http.StatusUnprocessableEntity, registerView, page)
		return
	}

	if err := s.api.Register(r.Context(), reg); err != nil {
		s.log.Info("registration failed", zap.String("username", reg.Username), zap.Error(err))
		s.recordAuth("register", false)
		page.Message = msgRegisterFailed
		s.views.render(w, r, http.StatusBadGateway, registerView, page)
		return
	}
	s.recordAuth("register", true)

	done := registerView
	done.Refresh = true
	s.views.render(w, r, http.StatusOK, done, &registerPage{Message: msgRegistered, Success: true})
}

// logout serves POST /logout from any state.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(w, r)
	s.recordAuth("logout", true)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
