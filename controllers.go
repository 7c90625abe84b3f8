package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventsAPI is the ambient event-lifecycle surface the chat subsystem
// hangs off of: create/list/update/delete events, and the
// host(event) -> conversation link join-request/approve/deny/
// remove-member need to authorize against. Event CRUD and ownership
// rules beyond that link are explicitly out of the chat subsystem's
// scope, so this surface stays thin.
type EventsAPI struct {
	store *Store
}

func NewEventsAPI(store *Store) *EventsAPI {
	return &EventsAPI{store: store}
}

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// getUserIDFromContext expects AuthMiddleware to have set "user_id" in
// context (AuthMiddleware stores it as a uint). It delegates to
// getUserIDFromClaim, so uint/int/float64 are accepted interchangeably.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return getUserIDFromClaim(v)
}

func validateAgeRange(minAge, maxAge int) bool {
	return minAge >= 0 && maxAge >= minAge
}

// CreateEvent creates the event row, then auto-creates its event-group
// conversation and enrolls the host as owner, in one transaction.
func (a *EventsAPI) CreateEvent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !validateAgeRange(body.MinAge, body.MaxAge) {
		jsonError(c, http.StatusBadRequest, "min_age must be >= 0 and <= max_age")
		return
	}

	ev := Event{
		HostUserID:  userID,
		Title:       strings.TrimSpace(body.Title),
		Location:    strings.TrimSpace(body.Location),
		Time:        body.Time,
		DateLabel:   body.DateLabel,
		Description: body.Description,
		Gender:      body.Gender,
		MinAge:      body.MinAge,
		MaxAge:      body.MaxAge,
	}

	var convo *Conversation
	err := a.store.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}
		eventID := ev.ID
		title := ev.Title
		eventConvo := Conversation{Title: &title, CreatedByID: userID, EventID: &eventID}
		if err := tx.Create(&eventConvo).Error; err != nil {
			return err
		}
		member := ConversationMember{ConversationID: eventConvo.ID, UserID: userID, Role: RoleOwner}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		convo = &eventConvo
		return nil
	})
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create event: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": ev, "conversationId": convo.ID})
}

func (a *EventsAPI) ListEvents(c *gin.Context) {
	var events []Event
	if err := a.store.db.Preload("Host").Order("created_at desc").Find(&events).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (a *EventsAPI) UpdateEvent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var body UpdateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !validateAgeRange(body.MinAge, body.MaxAge) {
		jsonError(c, http.StatusBadRequest, "min_age must be >= 0 and <= max_age")
		return
	}

	var ev Event
	if err := a.store.db.First(&ev, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "event not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	if ev.HostUserID != userID {
		jsonError(c, http.StatusForbidden, "only the host can update the event")
		return
	}

	ev.Title = strings.TrimSpace(body.Title)
	ev.Location = strings.TrimSpace(body.Location)
	ev.Time = body.Time
	ev.DateLabel = body.DateLabel
	ev.Description = body.Description
	ev.Gender = body.Gender
	ev.MinAge = body.MinAge
	ev.MaxAge = body.MaxAge

	if err := a.store.db.Save(&ev).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not update event: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// DeleteEvent cascades to conversation/members/messages/read-cursors/
// join-requests per the ownership rules in §3, modeled on the
// teacher's transactional DeleteEvent extended to the additional
// cascaded tables.
func (a *EventsAPI) DeleteEvent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var ev Event
	if err := a.store.db.First(&ev, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "event not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	if ev.HostUserID != userID {
		jsonError(c, http.StatusForbidden, "only the host can delete the event")
		return
	}

	err = a.store.db.Transaction(func(tx *gorm.DB) error {
		var convo Conversation
		hasConvo := true
		if err := tx.Where("event_id = ?", ev.ID).First(&convo).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			hasConvo = false
		}

		if hasConvo {
			if err := tx.Where("conversation_id = ?", convo.ID).Delete(&ReadCursor{}).Error; err != nil {
				return err
			}
			if err := tx.Where("conversation_id = ?", convo.ID).Delete(&Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("conversation_id = ?", convo.ID).Delete(&ConversationMember{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&convo).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("event_id = ?", ev.ID).Delete(&JoinRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Event{}, ev.ID).Error
	})
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}
