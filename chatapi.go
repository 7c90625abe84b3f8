package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ChatAPI is the REST request/response surface: list conversations,
// list messages (with read-cursor advance), create conversation,
// request-join, approve, deny, remove-member.
type ChatAPI struct {
	store *Store
	hub   *Hub
}

func NewChatAPI(store *Store, hub *Hub) *ChatAPI {
	return &ChatAPI{store: store, hub: hub}
}

func (a *ChatAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/conversations", a.listConversations)
	router.POST("/conversations", a.createConversation)
	router.GET("/conversations/:id/messages", a.listMessages)
	router.POST("/events/:id/chat/requests", a.requestJoin)
	router.POST("/events/:id/chat/requests/:userId/approve", a.approveJoin)
	router.POST("/events/:id/chat/requests/:userId/deny", a.denyJoin)
	router.DELETE("/events/:id/chat/members/:userId", a.removeMember)
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (a *ChatAPI) listConversations(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	conversations, err := a.store.listConversationsForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (a *ChatAPI) createConversation(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, newErr(KindInvalidInput, err.Error()))
		return
	}

	convo, err := a.store.createConversation(c.Request.Context(), req.Title, claims.UserID, req.MemberIDs, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := a.store.hydrateConversationSummary(c.Request.Context(), *convo, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": summary})
}

func (a *ChatAPI) listMessages(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid conversation id"))
		return
	}

	member, err := a.store.isMember(c.Request.Context(), conversationID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !member {
		respondError(c, ErrNotConversationMember)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := a.store.listMessages(c.Request.Context(), conversationID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(messages) > 0 {
		// Failure to persist the cursor is logged but does not fail the request.
		if err := a.store.updateReadCursor(c.Request.Context(), conversationID, claims.UserID, messages[0].ID); err != nil {
			log.Printf("advance read cursor failed: %v", err)
		}
	}

	payloads := make([]messagePayload, 0, len(messages))
	for _, msg := range messages {
		payloads = append(payloads, messagePayload{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Body:           msg.Body,
			CreatedAt:      msg.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": payloads})
}

func (a *ChatAPI) requestJoin(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid event id"))
		return
	}

	req, err := a.store.createJoinRequest(c.Request.Context(), eventID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (a *ChatAPI) approveJoin(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid event id"))
		return
	}
	targetUserID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid user id"))
		return
	}

	req, conversationID, err := a.store.approveJoinRequest(c.Request.Context(), eventID, targetUserID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	a.hub.notifyMembership(conversationID, targetUserID, membershipAdded)
	c.JSON(http.StatusOK, gin.H{"request": req, "conversationId": conversationID})
}

func (a *ChatAPI) denyJoin(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid event id"))
		return
	}
	targetUserID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid user id"))
		return
	}

	req, err := a.store.denyJoinRequest(c.Request.Context(), eventID, targetUserID, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (a *ChatAPI) removeMember(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		respondError(c, ErrUnauthenticated)
		return
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid event id"))
		return
	}
	targetUserID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, newErr(KindInvalidInput, "invalid user id"))
		return
	}

	// Authorization: caller is the event host, or caller == target (self-leave).
	if claims.UserID != targetUserID {
		isHost, err := NewAuthorizer(a.store).isEventHost(c.Request.Context(), claims.UserID, eventID)
		if err != nil {
			respondError(c, wrapStorage(err))
			return
		}
		if !isHost {
			respondError(c, newErr(KindForbidden, "caller may not remove this member"))
			return
		}
	}

	conversationID, err := a.store.removeEventMember(c.Request.Context(), eventID, targetUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	a.hub.notifyMembership(conversationID, targetUserID, membershipRemoved)
	c.Status(http.StatusNoContent)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

