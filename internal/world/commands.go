package world

// Command is a deferred structural mutation of the World.
type Command func(w *World)

// Commands queues mutations requested while tasks run. The execution engine
// applies them once per phase, after the last task of that phase.
type Commands struct {
	queue []Command
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Push appends a command to the queue.
func (c *Commands) Push(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// InsertResource queues the insertion of a resource.
func InsertResource[T any](c *Commands, v T) {
	c.Push(func(w *World) { Insert(w, v) })
}

// RemoveResource queues the removal of a resource.
func RemoveResource[T any](c *Commands) {
	c.Push(func(w *World) { Remove[T](w) })
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies every queued command in FIFO order and empties the queue.
// Commands pushed by a command during the flush run in the same flush. It
// returns the number of commands applied.
func (c *Commands) Flush(w *World) int {
	applied := 0
	for len(c.queue) > 0 {
		cmd := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		cmd(w)
		applied++
	}
	c.queue = nil
	return applied
}
