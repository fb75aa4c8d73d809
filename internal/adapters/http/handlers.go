package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/auth"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/dkeye/Lobby/internal/names"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const sessionUIDKey = "uid"

type NameRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type GuestTokenResponse struct {
	Token      string          `json:"token"`
	Room       domain.RoomName `json:"room"`
	Username   string          `json:"username"`
	UID        domain.UserID   `json:"uid"`
	ExpSeconds int64           `json:"expSeconds"`
}

type handlers struct {
	orch   *orch.Orchestrator
	tokens *auth.TokenService
	ice    []webrtc.ICEServer
}

func (h *handlers) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// guestUID returns the guest id remembered for this browser, minting one on
// first contact.
func guestUID(c *gin.Context) domain.UserID {
	sess := sessions.Default(c)
	if raw, ok := sess.Get(sessionUIDKey).(string); ok {
		if uid := domain.UserID(raw); uid.Validate() == nil {
			return uid
		}
	}
	uid := domain.NewGuest().ID
	sess.Set(sessionUIDKey, string(uid))
	if err := sess.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	return uid
}

func (h *handlers) guestToken(c *gin.Context) {
	room := domain.SanitizeRoomName(c.Query("room"))
	uid := guestUID(c)
	user := names.Resolve(c.Request.Context(), h.orch.Names, domain.User{ID: uid, Username: domain.GuestName(uid)})

	issued, err := h.tokens.Issue(domain.Identity{User: user, Room: room})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, GuestTokenResponse{
		Token:      issued.Token,
		Room:       room,
		Username:   user.Username,
		UID:        user.ID,
		ExpSeconds: int64(issued.TTL.Seconds()),
	})
}

func (h *handlers) rename(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	token := auth.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = req.Token
	}
	id, err := h.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.orch.Rename(c.Request.Context(), id.User, req.Name)
	switch {
	case errors.Is(err, domain.ErrUsernameEmpty), errors.Is(err, domain.ErrUsernameTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Str("user", string(id.User.ID)).Msg("rename")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save name"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

func (h *handlers) roomMembers(c *gin.Context) {
	name := domain.SanitizeRoomName(c.Param("name"))
	users, ok := h.orch.Members(c.Request.Context(), name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": name, "members": users})
}

func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ice})
}
