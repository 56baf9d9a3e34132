package main

import (
	"errors"
	"net/http"
	"time"

	"be04/models"
	"be04/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type api struct {
	auth     *AuthService
	tokens   *token.Service
	posts    *resourceHandlers[models.Post]
	comments *resourceHandlers[models.Comment]
}

func newAPI(auth *AuthService, tokens *token.Service, posts CrudStore[models.Post], comments CrudStore[models.Comment]) *api {
	return &api{
		auth:   auth,
		tokens: tokens,
		posts: &resourceHandlers[models.Post]{
			store:       posts,
			queryFields: map[string]string{"sender": "sender"},
			validate: func(p *models.Post) string {
				if p.Content == "" {
					return "Content is required"
				}
				return ""
			},
			sender:          func(p *models.Post) string { return p.Sender },
			setSender:       func(p *models.Post, id string) { p.Sender = id },
			apply:           func(dst, src *models.Post) { dst.Content = src.Content },
			notFound:        "Post not found",
			forbiddenUpdate: "Forbidden: You can only update your own posts",
			forbiddenDelete: "Forbidden: You can only delete your own posts",
		},
		comments: &resourceHandlers[models.Comment]{
			store:       comments,
			queryFields: map[string]string{"sender": "sender", "postId": "post_id"},
			validate: func(cm *models.Comment) string {
				if cm.Message == "" || cm.PostID == "" {
					return "message and postId are required"
				}
				return ""
			},
			sender:    func(cm *models.Comment) string { return cm.Sender },
			setSender: func(cm *models.Comment, id string) { cm.Sender = id },
			apply: func(dst, src *models.Comment) {
				dst.Message = src.Message
				dst.PostID = src.PostID
			},
			notFound:        "Comment not found",
			forbiddenUpdate: "Forbidden: You can only update your own comments",
			forbiddenDelete: "Forbidden: You can only delete your own comments",
		},
	}
}

func (a *api) routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	user := r.Group("/user")
	user.POST("/register", a.register)
	user.POST("/login", a.login)
	user.POST("/refresh", a.refresh)
	user.POST("/logout", requireAuth(a.tokens), a.logout)

	a.posts.mount(r.Group("/post"), a.tokens)
	a.comments.mount(r.Group("/comment"), a.tokens)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	result, err := a.auth.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		log.Error().Err(err).Str("email", NormalizeEmail(req.Email)).Msg("register")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (a *api) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	result, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Error().Err(err).Str("email", NormalizeEmail(req.Email)).Msg("login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (a *api) logout(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := a.auth.Logout(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("logout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (a *api) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}
	result, err := a.auth.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshInvalid):
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, ErrRefreshNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": "Refresh token not found"})
		default:
			log.Error().Err(err).Msg("refresh token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// resourceHandlers implements the shared CRUD surface for an owned resource.
// Resource-specific validation and field plumbing are injected, so posts and
// comments share every handler body.
type resourceHandlers[T any] struct {
	store           CrudStore[T]
	queryFields     map[string]string // query param -> column
	validate        func(*T) string   // returns a client message, or "" when valid
	sender          func(*T) string
	setSender       func(*T, string)
	apply           func(dst, src *T) // copies client-updatable fields
	notFound        string
	forbiddenUpdate string
	forbiddenDelete string
}

func (h *resourceHandlers[T]) mount(g *gin.RouterGroup, tokens *token.Service) {
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	authed := g.Group("", requireAuth(tokens))
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *resourceHandlers[T]) list(c *gin.Context) {
	filter := make(map[string]any)
	for param, column := range h.queryFields {
		if v := c.Query(param); v != "" {
			filter[column] = v
		}
	}
	items, err := h.store.List(filter)
	if err != nil {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *resourceHandlers[T]) getByID(c *gin.Context) {
	item, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Data not found"})
			return
		}
		log.Error().Err(err).Str("id", c.Param("id")).Msg("get by id")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *resourceHandlers[T]) create(c *gin.Context) {
	var item T
	_ = c.ShouldBindJSON(&item) // a zero value falls through to the presence checks
	if msg := h.validate(&item); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	// The sender always comes from the verified identity, never the body.
	h.setSender(&item, currentUserID(c))
	if err := h.store.Create(&item); err != nil {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("create")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *resourceHandlers[T]) update(c *gin.Context) {
	var req T
	_ = c.ShouldBindJSON(&req)
	if msg := h.validate(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	existing, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.notFound})
			return
		}
		log.Error().Err(err).Str("id", c.Param("id")).Msg("update load")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.sender(existing) != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": h.forbiddenUpdate})
		return
	}
	h.apply(existing, &req)
	h.setSender(existing, currentUserID(c))
	if err := h.store.Update(existing); err != nil {
		log.Error().Err(err).Str("id", c.Param("id")).Msg("update save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *resourceHandlers[T]) delete(c *gin.Context) {
	existing, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.notFound})
			return
		}
		log.Error().Err(err).Str("id", c.Param("id")).Msg("delete load")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.sender(existing) != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": h.forbiddenDelete})
		return
	}
	if err := h.store.Delete(c.Param("id")); err != nil && !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Str("id", c.Param("id")).Msg("delete")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, existing)
}
