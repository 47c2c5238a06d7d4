package chat

// registry is the in-memory presence table: which users have a live
// websocket on this instance. It is owned by the hub's run goroutine;
// every mutation happens on that one goroutine, so there is no lock.
type registry struct {
	byUsername map[string]*Client
	byUserID   map[int]*Client
}

func newRegistry() *registry {
	return &registry{
		byUsername: make(map[string]*Client),
		byUserID:   make(map[int]*Client),
	}
}

// register inserts the client, displacing any existing record for the
// same username or the same user id. A user who reconnects under a new
// name must not leave a record behind under the old one. The displaced
// connection is not closed here; it simply stops being a delivery target
// and its own pumps clean it up.
func (r *registry) register(c *Client) {
	if old, ok := r.byUsername[c.Username]; ok {
		delete(r.byUserID, old.UserID)
	}
	if old, ok := r.byUserID[c.UserID]; ok {
		delete(r.byUsername, old.Username)
	}
	r.byUsername[c.Username] = c
	r.byUserID[c.UserID] = c
}

func (r *registry) byUser(userID int) (*Client, bool) {
	c, ok := r.byUserID[userID]
	return c, ok
}

// remove drops the record only if it still points at this exact session.
// A client that was displaced by a reconnect must not remove its
// successor on the way out.
func (r *registry) remove(c *Client) bool {
	cur, ok := r.byUsername[c.Username]
	if !ok || cur.SessionID != c.SessionID {
		return false
	}
	delete(r.byUsername, c.Username)
	if byID, ok := r.byUserID[cur.UserID]; ok && byID.SessionID == cur.SessionID {
		delete(r.byUserID, cur.UserID)
	}
	return true
}

func (r *registry) size() int {
	return len(r.byUsername)
}
