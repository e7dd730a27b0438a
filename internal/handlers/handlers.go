package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hotornot/internal/config"
	"hotornot/internal/live"
	"hotornot/internal/repository"
	"hotornot/internal/service"
)

type Dependencies struct {
	Config      *config.AppConfig
	Store       *repository.Store
	Cache       *redis.Client
	Pairs       *service.PairService
	Votes       *service.VoteService
	Profiles    *service.ProfileService
	Leaderboard *service.LeaderboardService
	Hub         *live.Hub
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	store       *repository.Store
	cache       *redis.Client
	pairs       *service.PairService
	votes       *service.VoteService
	profiles    *service.ProfileService
	leaderboard *service.LeaderboardService
	hub         *live.Hub
}

func NewHandlerSet(log zerolog.Logger, deps Dependencies) HandlerSet {
	return HandlerSet{
		log:         log,
		cfg:         deps.Config,
		store:       deps.Store,
		cache:       deps.Cache,
		pairs:       deps.Pairs,
		votes:       deps.Votes,
		profiles:    deps.Profiles,
		leaderboard: deps.Leaderboard,
		hub:         deps.Hub,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.GET("/models", h.Models)
	router.POST("/vote", h.Vote)
	router.GET("/profile", h.Profile)
	router.GET("/leaderboard", h.Leaderboard)

	if h.hub != nil {
		router.GET("/live", h.Live)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// abort writes the error body for err. Invalid input maps to 400 and
// unknown images to 404; everything else is logged and reported as 500
// with fallback as the message.
func (h HandlerSet) abort(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingImageIDs):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Both winnerId and loserId are required"})
	case errors.Is(err, service.ErrSameImage):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "winnerId and loserId must be different images"})
	case errors.Is(err, repository.ErrImageNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "One or both images not found"})
	default:
		_ = c.Error(err)
		h.logger(c).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}

func (h HandlerSet) logger(c *gin.Context) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.log
}
