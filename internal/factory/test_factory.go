package factory

import (
	"time"

	"github.com/JupiterPi/verse/internal/dependencies/mocks"
	"github.com/JupiterPi/verse/internal/services/joincode"
	"github.com/JupiterPi/verse/internal/storage/memory"
	"github.com/JupiterPi/verse/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	gateway := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(gateway, mockClock, mockRandom, joincode.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
