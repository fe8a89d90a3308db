package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJobDescription_PlainText(t *testing.T) {
	got, err := CleanJobDescription("  Senior   Go Engineer \r\n\r\n\tRemote  ok \n")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\nRemote ok", got)
}

func TestCleanJobDescription_ComparisonsAreNotHTML(t *testing.T) {
	got, err := CleanJobDescription("Latency < 50ms and throughput > 10k rps")
	require.NoError(t, err)
	assert.Equal(t, "Latency < 50ms and throughput > 10k rps", got)
}

func TestCleanJobDescription_HTMLFragment(t *testing.T) {
	raw := `<h2>Backend Engineer</h2><p>We build <b>payments</b> infrastructure.</p><ul><li>Go</li><li>PostgreSQL</li></ul><script>track()</script>`

	got, err := CleanJobDescription(raw)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nWe build payments infrastructure.\nGo\nPostgreSQL", got)
}

func TestCleanJobDescription_PostingBodyPreferred(t *testing.T) {
	raw := `<html><body><nav>Jobs | Login</nav><div class="job-description"><p>Own the billing platform.</p></div><footer>© Acme</footer></body></html>`

	got, err := CleanJobDescription(raw)
	require.NoError(t, err)
	assert.Equal(t, "Own the billing platform.", got)
}
