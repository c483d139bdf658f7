package e2e

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBinary builds the drzonst binary in dir and returns its path.
// Assumes tests are running from tests/e2e.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "drzonst.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/drzonst")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build drzonst: %v\n%s", err, string(out))
	}
	return bin
}

// run executes the binary and returns its stdout, failing the test on error.
func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	stdout, stderr, err := runRaw(dir, name, args...)
	if err != nil {
		t.Fatalf("Command %s %v failed in %s: %v\n%s", name, args, dir, err, stderr)
	}
	return stdout
}

func runRaw(dir string, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

const shopPRD = `# Section: Overview
- Product Description: Tracks stock for a small bookshop.
- Business Area: Bookshop Inventory

# Section: Things
- Book: A book in the store.
  ## Properties:
    - title: text, required
    - id: text, unique, required
  ## Actions:
    - Add Book: Adds a book
    - Remove Book: Removes a book
- User: A person using the system.
  ## Properties:
    - roles: list of roles, required

# Section: Operations
## Add Book
- Describe what the action does: Adds a book.
- Who Can Do It: Admin Only
- Notifications:
  - A book was added.
`
