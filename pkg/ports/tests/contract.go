// Package tests provides reusable contract suites verifying that storage
// adapters comply with the ports interfaces.
package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
)

// ContractDefinition returns a small definition used by the contract
// suites. Adapters may use it to pre-seed read-only sources.
func ContractDefinition(name string) *graphdef.Definition {
	return &graphdef.Definition{
		Name: name,
		Nodes: []graphdef.NodeDef{
			{Name: "emit", Kind: "sample.pulse"},
			{Name: "sum", Kind: "sample.add", Inputs: []graphdef.InputDef{
				{Node: "emit", Output: "value"},
				{Value: graphdef.Value(0)},
			}},
		},
	}
}

// RunSourceContract verifies that a Source+Publisher pair adheres to the
// interface contract: round-trips preserve structure (including zero-valued
// defaults), loads are independent of each other, and missing names are
// reported with ErrDefinitionNotFound.
func RunSourceContract(t *testing.T, source ports.Source, pub ports.Publisher) {
	ctx := context.Background()

	t.Run("Publish And Load", func(t *testing.T) {
		def := ContractDefinition("contract-counter")
		require.NoError(t, pub.Publish(ctx, def), "Publish should not return error")

		loaded, err := source.Load(ctx, "contract-counter")
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "contract-counter", loaded.Name)
		require.Len(t, loaded.Nodes, 2)
		assert.Equal(t, "sample.pulse", loaded.Nodes[0].Kind)

		inputs := loaded.Nodes[1].Inputs
		require.Len(t, inputs, 2)
		assert.Equal(t, "emit", inputs[0].Node)
		require.NotNil(t, inputs[1].Value, "a zero-valued default must survive the round-trip")
	})

	t.Run("Loads Are Independent", func(t *testing.T) {
		loaded, err := source.Load(ctx, "contract-counter")
		require.NoError(t, err)
		loaded.Nodes[0].Kind = "mangled.kind"

		again, err := source.Load(ctx, "contract-counter")
		require.NoError(t, err)
		assert.Equal(t, "sample.pulse", again.Nodes[0].Kind,
			"mutating a loaded definition must not affect the store")
	})

	t.Run("Publish Replaces", func(t *testing.T) {
		def := ContractDefinition("contract-counter")
		def.Nodes = def.Nodes[:1]
		require.NoError(t, pub.Publish(ctx, def))

		loaded, err := source.Load(ctx, "contract-counter")
		require.NoError(t, err)
		assert.Len(t, loaded.Nodes, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := source.Load(ctx, "contract-missing")
		assert.ErrorIs(t, err, ports.ErrDefinitionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, pub.Publish(ctx, ContractDefinition("contract-second")))

		names, err := source.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "contract-counter")
		assert.Contains(t, names, "contract-second")
		assert.IsIncreasing(t, names, "List should return sorted names")
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, pub.Remove(ctx, "contract-second"))

		_, err := source.Load(ctx, "contract-second")
		assert.ErrorIs(t, err, ports.ErrDefinitionNotFound)

		assert.ErrorIs(t, pub.Remove(ctx, "contract-second"), ports.ErrDefinitionNotFound,
			"removing a missing definition should report ErrDefinitionNotFound")
	})
}
