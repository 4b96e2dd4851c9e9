package sys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSyscalls struct {
	native
	closed []int
}

func (s *stubSyscalls) Open(string, int, uint32) (int, error) { return 7, nil }
func (s *stubSyscalls) Close(fd int) error {
	s.closed = append(s.closed, fd)
	return nil
}

func TestFaulty_InjectOnce(t *testing.T) {
	stub := &stubSyscalls{}
	f := NewFaulty(stub)

	boom := errors.New("boom")
	f.InjectOnce(OpOpen, boom)

	_, err := f.Open("x", 0, 0)
	assert.ErrorIs(t, err, boom)

	fd, err := f.Open("x", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 7, fd)
	assert.Equal(t, 2, f.Calls(OpOpen))
}

func TestFaulty_InjectUntilCleared(t *testing.T) {
	f := NewFaulty(&stubSyscalls{})
	f.Inject(OpOpen, nil)

	for i := 0; i < 3; i++ {
		_, err := f.Open("x", 0, 0)
		assert.EqualError(t, err, "injected open error")
	}

	f.Clear(OpOpen)
	_, err := f.Open("x", 0, 0)
	assert.NoError(t, err)
}

func TestFaulty_CloseStillCloses(t *testing.T) {
	stub := &stubSyscalls{}
	f := NewFaulty(stub)
	f.InjectOnce(OpClose, nil)

	err := f.Close(9)
	assert.Error(t, err)
	assert.Equal(t, []int{9}, stub.closed)
	assert.Equal(t, 1, f.Calls(OpClose))
	assert.Zero(t, f.Calls(OpMmap))
}
