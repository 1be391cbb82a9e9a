package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodNamed(t *testing.T, cls *ClassModel, name string) MethodModel {
	t.Helper()
	for _, m := range cls.Methods() {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "method not found", "%s has no method %s", cls.SimpleName(), name)
	return MethodModel{}
}

func TestInferredExceptions(t *testing.T) {
	cls := extract(t, "Risky.java", `package demo;

import java.io.IOException;
import java.math.BigDecimal;
import java.nio.file.Files;
import java.nio.file.Path;
import java.util.List;
import java.util.Optional;

public class Risky {
    private final Lookup lookup;
    private List<String> names;

    public String first() {
        return names.get(0);
    }

    public int parse(String raw) {
        return Integer.parseInt(raw);
    }

    public BigDecimal amount(String raw) {
        return new BigDecimal(raw);
    }

    public int head(int[] values) {
        return values[0];
    }

    public List<String> lines(Path path) {
        return Files.readAllLines(path);
    }

    public String value(Optional<String> maybe) {
        return maybe.get();
    }

    public char initial(String s) {
        return s.charAt(0);
    }

    public User load(Long id) {
        return lookup.find(id).orElseThrow(() -> new UserNotFoundException(id));
    }

    public User loadRef(Long id) {
        return lookup.find(id).orElseThrow(UserNotFoundException::new);
    }

    public void quiet() {
        // values[0].orElseThrow() Integer.parseInt(x)
        System.out.println("names.get(0) Files.readAllLines orElseThrow() [1]");
    }

    public void declared() throws IOException {
        Files.delete(Path.of("x"));
    }

    public String both(Optional<String> maybe) throws NullPointerException {
        return maybe.orElseThrow();
    }
}
`)

	tests := []struct {
		method string
		want   []string
	}{
		{"first", []string{IndexOutOfBoundsException}},
		{"parse", []string{NumberFormatException}},
		{"amount", []string{NumberFormatException}},
		{"head", []string{ArrayIndexOutOfBoundsException}},
		{"lines", []string{IOException}},
		{"value", []string{NullPointerException}},
		{"initial", []string{IndexOutOfBoundsException}},
		{"load", []string{"demo.UserNotFoundException"}},
		{"loadRef", []string{"demo.UserNotFoundException"}},
		{"quiet", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, methodNamed(t, cls, tt.method).PossibleExceptions)
		})
	}

	t.Run("declared and inferred are merged by name", func(t *testing.T) {
		m := methodNamed(t, cls, "declared")
		assert.Equal(t, []string{"java.io.IOException"}, m.DeclaredExceptions)
		assert.Equal(t, []string{"java.io.IOException"}, m.AllExceptions())

		both := methodNamed(t, cls, "both")
		assert.Equal(t, []string{NullPointerException}, both.AllExceptions())
	})
}

func TestMergeExceptions(t *testing.T) {
	got := mergeExceptions(
		[]string{"com.acme.NotFoundException", "java.io.IOException"},
		[]string{"IOException", "java.lang.NullPointerException", "com.acme.NotFoundException"},
	)
	assert.Equal(t, []string{
		"com.acme.NotFoundException",
		"java.io.IOException",
		"java.lang.NullPointerException",
	}, got)
}

func TestCallSites(t *testing.T) {
	cls := extract(t, "Ledger.java", `package demo;

import java.util.List;

public class Ledger {
    private final EntryRepository entries;
    private final Notifier notifier;

    public List<Entry> recent(String account) {
        return entries.findByAccount(account);
    }

    public void post(Entry entry) {
        this.entries.save(entry);
        notifier.publish(entry, "posted");
        notifier.publish(entry, "again");
        String.valueOf(entry);
    }
}
`)

	recent := methodNamed(t, cls, "recent")
	assert.Equal(t, []CallSite{
		{Receiver: "entries", Method: "findByAccount", Arguments: []string{"account"}, Returned: true},
	}, recent.Calls)

	post := methodNamed(t, cls, "post")
	assert.Equal(t, []CallSite{
		{Receiver: "entries", Method: "save", Arguments: []string{"entry"}},
		{Receiver: "notifier", Method: "publish", Arguments: []string{"entry", `"posted"`}},
	}, post.Calls)
}
