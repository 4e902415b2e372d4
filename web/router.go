// Package web holds the HTML front end: routing, views and error pages.
package web

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Shkitskiy94/hw05-final/auth"
	"github.com/Shkitskiy94/hw05-final/cache"
	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"
	"golang.org/x/time/rate"
)

const (
	SessionCookieName = "sessionid"
	LoginURL          = "/auth/login/"
)

type Options struct {
	SessionStore sessions.Store
	PageCache    cache.Store          // cache.Default() when nil
	HTMLRender   ginrender.HTMLRender // templates from TEMPLATES_DIR when nil
	SkipCSRF     bool                 // tests only
}

func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	_ = router.SetTrustedProxies(nil)
	router.Use(utils.RequestLogger(), gin.CustomRecovery(recoverPanic))
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	if config.CORS_ORIGINS != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Split(config.CORS_ORIGINS, ","),
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", auth.CSRFHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}

	if opts.HTMLRender != nil {
		router.HTMLRender = opts.HTMLRender
	} else {
		router.SetFuncMap(templateFuncs())
		router.LoadHTMLGlob(filepath.Join(config.TEMPLATES_DIR, "*", "*.html"))
	}
	if config.STATIC_DIR != "" {
		router.Static("/static", config.STATIC_DIR)
	}
	// media files set their own cache headers and bypass sessions
	router.GET("/media/*path", Media)

	router.Use(sessions.Sessions(SessionCookieName, opts.SessionStore))
	router.Use(auth.UserMiddleware)
	if !opts.SkipCSRF {
		router.Use(auth.CSRFMiddleware(CSRFFailure))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())
	router.Use(utils.NewRateLimiter(rate.Limit(20), 100, "Too many requests.").Handler())
	router.NoRoute(NotFound)

	pageCache := opts.PageCache
	if pageCache == nil {
		pageCache = cache.Default()
	}
	indexTTL := time.Duration(config.INDEX_CACHE_SECONDS) * time.Second

	authRouter := &auth.Router{Base: router, LoginURL: LoginURL}
	// Posts
	router.GET("/", cache.Page(pageCache, indexTTL, cacheVaryUser), Index)
	router.GET("/group/:slug/", GroupPosts)
	router.GET("/profile/:username/", Profile)
	router.GET("/posts/:post_id/", PostDetail)
	authRouter.Form("/create/", PostCreate)
	authRouter.Form("/posts/:post_id/edit/", PostEdit)
	authRouter.Form("/posts/:post_id/comment/", AddComment)
	// Follows
	authRouter.GET("/follow/", FollowIndex)
	authRouter.GET("/profile/:username/follow/", ProfileFollow)
	authRouter.GET("/profile/:username/unfollow/", ProfileUnfollow)

	// Accounts
	loginLimit := utils.NewRateLimiter(rate.Every(6*time.Second), 10, "Too many login attempts, try again later.")
	resetLimit := utils.NewRateLimiter(rate.Every(time.Minute), 5, "Too many password reset requests, try again later.")
	users := router.Group("/auth")
	usersAuth := &auth.Router{Base: users, LoginURL: LoginURL}
	users.GET("/signup/", Signup)
	users.POST("/signup/", Signup)
	users.GET("/login/", Login)
	users.POST("/login/", loginLimit.Handler(), Login)
	users.GET("/logout/", Logout)
	users.POST("/logout/", Logout)
	users.GET("/password_reset/", PasswordReset)
	users.POST("/password_reset/", resetLimit.Handler(), PasswordReset)
	users.GET("/password_reset/done/", staticPage("users/password_reset_done.html"))
	users.GET("/password_reset/complete/", staticPage("users/password_reset_complete.html"))
	users.GET("/reset/:uidb64/:token/", PasswordResetConfirm)
	users.POST("/reset/:uidb64/:token/", PasswordResetConfirm)
	usersAuth.Form("/password_change/", PasswordChange)
	usersAuth.GET("/password_change/done/", PasswordChangeDone)

	return router
}

// cacheVaryUser keeps cached pages of different users apart.
func cacheVaryUser(c *gin.Context) string {
	if user := auth.CurrentUser(c); user != nil {
		return strconv.FormatUint(user.ID, 10)
	}
	return "0"
}

func staticPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, name, nil)
	}
}
