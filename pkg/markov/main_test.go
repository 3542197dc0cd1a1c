package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

// buildModel indexes the given lines with default options.
func buildModel(t testing.TB, lines ...string) *WordModel {
	t.Helper()
	return Index(slices.Values(lines))
}

// seededRand returns a deterministic random source for repeatable generation.
func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = []string{"this is a fallback corpus for benchmarking. it is not very long but will prevent a crash."}
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = strings.Split(sb.String(), "\n")
	})
	return benchmarkCorpus
}
