package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ankh/internal/registry"
)

func factoryComponent(cfg map[string]any) registry.Component {
	return registry.Component{UID: "greeter", Kind: "factory", Config: cfg}
}

func TestFactory_Build(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": `func New(n int) int { return n * 2 }`,
		"entry":   `New(21)`,
	}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, "New(21)", payload["entry"])
	assert.Equal(t, 42, payload["result"])
}

func TestFactory_SourceOnly(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": `1 + 2`,
	}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, 3, payload["result"])
}

func TestFactory_MissingFactoryConfig(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{}))
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "missing required config 'factory'")
}

func TestFactory_DisallowedImport(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": "import \"os\"\nfunc New() string { return os.Getenv(\"HOME\") }",
		"entry":   "New()",
	}))

	assert.False(t, res.OK(), "filesystem access must be rejected")
	assert.Contains(t, res.Err, "factory source error")
	assert.Contains(t, res.Err, "os")
}

func TestFactory_AliasedImportRejected(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": "import o \"os\"\nfunc New() string { return o.Getenv(\"HOME\") }",
		"entry":   "New()",
	}))

	assert.False(t, res.OK(), "aliasing must not widen the sandbox")
	assert.Contains(t, res.Err, "os")
	assert.Nil(t, res.Payload)
}

func TestFactory_ParenImportRejected(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": "import (\"os\")\nfunc New() string { return os.Getenv(\"HOME\") }",
		"entry":   "New()",
	}))

	assert.False(t, res.OK(), "parenthesized imports must not widen the sandbox")
	assert.Contains(t, res.Err, "os")
	assert.Nil(t, res.Payload)
}

func TestFactory_AliasedAllowedImport(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": "import s \"strings\"\nfunc New(v string) string { return s.ToLower(v) }",
		"entry":   `New("ANKH")`,
	}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, "ankh", payload["result"])
}

func TestFactory_AllowedImport(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": "import \"strings\"\nfunc New(s string) string { return strings.ToUpper(s) }",
		"entry":   `New("ankh")`,
	}))

	require.True(t, res.OK(), "unexpected error: %s", res.Err)
	payload := res.Payload.(map[string]any)
	assert.Equal(t, "ANKH", payload["result"])
}

func TestFactory_BrokenSource(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": `func New( {`,
	}))
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "factory source error")
}

func TestFactory_UnknownConstructor(t *testing.T) {
	res := Factory{}.Build(context.Background(), factoryComponent(map[string]any{
		"factory": `func New() int { return 1 }`,
		"entry":   `Missing()`,
	}))
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "factory invocation error")
}
