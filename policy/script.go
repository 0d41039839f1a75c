package policy

import (
	"context"
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/heroknight/prefabs"
)

const decideDispatchScript = `
__action := decide(__obs, __reward, __step)
`

// ScriptPolicy runs a tengo script defining decide(obs, reward, step). The
// script is compiled once; each decision swaps the globals and reruns it.
type ScriptPolicy struct {
	name string

	mu       sync.Mutex
	compiled *tengo.Compiled
}

// NewScriptPolicy loads and compiles a script from prefabs/scripts.
func NewScriptPolicy(name string) (*ScriptPolicy, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("policy: load script %s: %w", name, err)
	}
	compiled, err := compileDecide(src)
	if err != nil {
		return nil, fmt.Errorf("policy: compile script %s: %w", name, err)
	}
	return &ScriptPolicy{name: name, compiled: compiled}, nil
}

// NewScriptPolicySource compiles an in-memory script.
func NewScriptPolicySource(name string, src []byte) (*ScriptPolicy, error) {
	compiled, err := compileDecide(src)
	if err != nil {
		return nil, fmt.Errorf("policy: compile script %s: %w", name, err)
	}
	return &ScriptPolicy{name: name, compiled: compiled}, nil
}

func compileDecide(src []byte) (*tengo.Compiled, error) {
	full := string(src) + "\n" + decideDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__obs", []interface{}{})
	_ = script.Add("__reward", 0.0)
	_ = script.Add("__step", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (p *ScriptPolicy) Name() string {
	return p.name
}

// Reload recompiles the script, keeping the old one if the new source is
// broken.
func (p *ScriptPolicy) Reload() error {
	src, err := prefabs.LoadScript(p.name)
	if err != nil {
		return fmt.Errorf("policy: load script %s: %w", p.name, err)
	}
	compiled, err := compileDecide(src)
	if err != nil {
		return fmt.Errorf("policy: compile script %s: %w", p.name, err)
	}
	p.mu.Lock()
	p.compiled = compiled
	p.mu.Unlock()
	return nil
}

func (p *ScriptPolicy) Decide(ctx context.Context, obs Observation) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	vec := make([]interface{}, len(obs.Vector))
	for i, v := range obs.Vector {
		vec[i] = v
	}
	if err := p.compiled.Set("__obs", vec); err != nil {
		return nil, err
	}
	if err := p.compiled.Set("__reward", obs.Reward); err != nil {
		return nil, err
	}
	if err := p.compiled.Set("__step", obs.Step); err != nil {
		return nil, err
	}
	if err := p.compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("policy: run script %s: %w", p.name, err)
	}

	raw := p.compiled.Get("__action").Array()
	if len(raw) == 0 {
		return nil, ErrNoAction
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		switch n := v.(type) {
		case float64:
			out[i] = n
		case int64:
			out[i] = float64(n)
		case bool:
			if n {
				out[i] = 1
			}
		default:
			return nil, fmt.Errorf("policy: script %s: action[%d] is %T", p.name, i, v)
		}
	}
	return out, nil
}
