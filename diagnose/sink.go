package diagnose

// Sink is the single unbounded channel of §4.6/§5: the analysis worker
// calls Emit from one goroutine, the main thread calls Drain from
// another, and the two communicate exclusively through sink's internal
// queue. A nil *Entry is the terminator: Close sends it, and Drain
// returns after receiving it.
//
// Go channels have a fixed capacity, so "unbounded" is implemented with
// a pump goroutine holding a growing slice between the producer and the
// consumer-facing channel, rather than a single buffered channel.
type Sink struct {
	in  chan *Entry
	out chan *Entry
}

// NewSink starts a new Sink's pump goroutine and returns it.
func NewSink() *Sink {
	s := &Sink{
		in:  make(chan *Entry),
		out: make(chan *Entry),
	}
	go s.pump()
	return s
}

// Emit sends e to the sink. It never blocks on the consumer: Emit only
// blocks while the pump goroutine is itself blocked delivering the head
// of its queue, which it does opportunistically.
func (s *Sink) Emit(e Entry) {
	s.in <- &e
}

// Close sends the sentinel terminator. It does not guard against a
// second call: a second Close either queues another terminator (if the
// pump has not yet delivered the first) or blocks forever (once the pump
// has shut down). It never panics.
func (s *Sink) Close() {
	s.in <- nil
}

// Next blocks until the next Entry is available, returning ok == false
// once the terminator has been received and drained.
func (s *Sink) Next() (Entry, bool) {
	e, ok := <-s.out
	if !ok || e == nil {
		return Entry{}, false
	}
	return *e, true
}

// pump relays entries from in to out through an unbounded in-memory
// queue, so Emit never has to wait for a slow consumer.
func (s *Sink) pump() {
	var queue []*Entry
	terminated := false
	for {
		if len(queue) == 0 {
			if terminated {
				close(s.out)
				return
			}
			e := <-s.in
			queue = append(queue, e)
			continue
		}
		head := queue[0]
		if head == nil {
			// The sentinel has reached the front of the queue; deliver it
			// and then shut down once it is consumed.
			s.out <- nil
			queue = queue[1:]
			terminated = true
			continue
		}
		select {
		case e := <-s.in:
			queue = append(queue, e)
		case s.out <- head:
			queue = queue[1:]
		}
	}
}
