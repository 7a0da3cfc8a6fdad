package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/gpt"
	"github.com/joshuapare/slotkit/internal/testutil"
)

// resetGlobals restores flag state between test cases.
func resetGlobals(t *testing.T) {
	t.Helper()
	verbose = false
	quiet = true
	jsonOut = false
	cfgFile = ""
	selectDryRun = false
	cfg = defaultConfig()
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

func crosWord(priority, tries uint8, successful bool) uint16 {
	return ab.ChromeOSAttributes{Priority: priority, Tries: tries, Successful: successful}.Encode()
}

func qcomWord(priority, tries uint8) uint16 {
	return ab.QualcommAttributes{Priority: priority, Tries: tries}.Encode()
}

// chromeOSImage writes a two-kernel image where KERN-B is a fresh update.
func chromeOSImage(t *testing.T) string {
	t.Helper()
	return testutil.WriteImageFile(t,
		testutil.Part{Type: ab.ChromeOSKernelType, Name: "KERN-A", Status: crosWord(1, 0, true),
			Unique: gpt.MustParseGUID("11111111-2222-3333-4444-555555555555")},
		testutil.Part{Type: ab.ChromeOSKernelType, Name: "KERN-B", Status: crosWord(2, 3, false),
			Unique: gpt.MustParseGUID("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")},
	)
}
