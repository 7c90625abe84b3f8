package main

import "context"

// Authorizer is a thin view over Store. canSend is re-evaluated on
// every send rather than cached, because membership can change while a
// session is alive (see the Hub send path in session.go).
type Authorizer struct {
	store *Store
}

func NewAuthorizer(store *Store) *Authorizer {
	return &Authorizer{store: store}
}

func (a *Authorizer) memberOf(ctx context.Context, userID, conversationID uint) (bool, error) {
	return a.store.isMember(ctx, conversationID, userID)
}

func (a *Authorizer) isEventHost(ctx context.Context, userID, eventID uint) (bool, error) {
	var event Event
	if err := a.store.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return false, err
	}
	return event.HostUserID == userID, nil
}

func (a *Authorizer) canSend(ctx context.Context, userID, conversationID uint) (bool, error) {
	return a.memberOf(ctx, userID, conversationID)
}
