package session

// Retry returns the text of the most recent user message so the composer
// can be refilled. It reports false when the transcript has no error or no
// user message. It never resubmits and never changes the transcript.
func (c *Controller) Retry() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return "", false
	}
	return c.cur.st.lastUserInput()
}
