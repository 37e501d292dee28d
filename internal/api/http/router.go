package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/security"
	"pinax-social-backend/internal/service"
	"pinax-social-backend/internal/storage"
)

// Services bundles what the HTTP API serves
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Friends       service.FriendService
	Tribes        service.TribeService
	Topics        service.TopicService
	Projects      service.ProjectService
	Tasks         service.TaskService
	Messages      service.MessageService
	Photos        service.PhotoService
	Tags          service.TagService
	Votes         service.VoteService
	Tweets        service.TweetService
	Notifications service.NotificationService
	Feeds         service.FeedService
	Plugins       service.PluginService
	Media         storage.MediaStorage
}

type Handler struct {
	svc Services
}

// NewRouter builds the /api/v1 route table plus the public media route.
// Route names key into config.EndpointSecurityConfig.
func NewRouter(svc Services, tm security.TokenManager) *mux.Router {
	h := &Handler{svc: svc}
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.Use(NewAuthMiddleware(tm).Handler)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "no such endpoint")
	})

	router.HandleFunc("/media/{key:.+}", h.ServeMedia).Methods(http.MethodGet).Name("media.get")

	api := router.PathPrefix("/api/v1").Subrouter()
	h.authRoutes(api)
	h.userRoutes(api)
	h.friendRoutes(api)
	h.tribeRoutes(api)
	h.projectRoutes(api)
	h.messageRoutes(api)
	h.photoRoutes(api)
	h.tagRoutes(api)
	h.voteRoutes(api)
	h.tweetRoutes(api)
	h.notificationRoutes(api)
	h.feedRoutes(api)
	h.pluginRoutes(api)
	return router
}

func (h *Handler) authRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost).Name("auth.signup")
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("auth.login")
	r.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost).Name("auth.refresh")
	r.HandleFunc("/auth/password", h.ChangePassword).Methods(http.MethodPut).Name("auth.password.change")
	r.HandleFunc("/auth/password-reset", h.RequestPasswordReset).Methods(http.MethodPost).Name("auth.password_reset.request")
	r.HandleFunc("/auth/password-reset/confirm", h.ResetPassword).Methods(http.MethodPost).Name("auth.password_reset.confirm")
	r.HandleFunc("/auth/email/confirm", h.ConfirmEmail).Methods(http.MethodPost).Name("auth.email.confirm")
}

func (h *Handler) userRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods(http.MethodGet).Name("users.me")
	r.HandleFunc("/me", h.UpdateProfile).Methods(http.MethodPatch).Name("users.update")
	r.HandleFunc("/me/emails", h.ListEmails).Methods(http.MethodGet).Name("users.emails.list")
	r.HandleFunc("/me/emails", h.AddEmail).Methods(http.MethodPost).Name("users.emails.add")
	r.HandleFunc("/me/emails/{id}/primary", h.SetPrimaryEmail).Methods(http.MethodPost).Name("users.emails.primary")
	r.HandleFunc("/me/emails/{id}", h.RemoveEmail).Methods(http.MethodDelete).Name("users.emails.remove")
	r.HandleFunc("/me/avatars", h.ListAvatars).Methods(http.MethodGet).Name("users.avatars.list")
	r.HandleFunc("/me/avatars", h.UploadAvatar).Methods(http.MethodPost).Name("users.avatars.upload")
	r.HandleFunc("/me/avatars/{id}/primary", h.SetPrimaryAvatar).Methods(http.MethodPost).Name("users.avatars.primary")
	r.HandleFunc("/me/avatars/{id}", h.DeleteAvatar).Methods(http.MethodDelete).Name("users.avatars.delete")
	r.HandleFunc("/users/{username}", h.GetUser).Methods(http.MethodGet).Name("users.get")
}
