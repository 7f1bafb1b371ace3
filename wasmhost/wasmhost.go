package wasmhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/hupe1980/memstr"
	"github.com/hupe1980/memstr/internal/conv"
)

// ErrNoMemory is returned when the calling module has no linear memory.
var ErrNoMemory = errors.New("wasmhost: module has no memory")

var i32 = api.ValueTypeI32

// handler runs one primitive against the caller's memory. Results are
// written back into stack.
type handler func(space *memstr.Space, stack []uint64) error

type export struct {
	name    string
	params  []string
	results int
	fn      handler
}

var exports = []export{
	{"memcpy", []string{"dst", "src", "cnt"}, 1, memcpy},
	{"memset", []string{"dst", "val", "cnt"}, 1, memset},
	{"memcmp", []string{"a", "b", "cnt"}, 1, memcmp},
	{"memchr", []string{"p", "val", "n"}, 1, memchr},
	{"memmove", []string{"dst", "src", "n"}, 1, memmove},
	{"strlen", []string{"s"}, 1, strlen},
	{"strnlen", []string{"s", "n"}, 1, strnlen},
	{"strcpy", []string{"dst", "src"}, 1, strcpy},
	{"strncpy", []string{"dst", "src", "n"}, 1, strncpy},
	{"strcat", []string{"dst", "src"}, 1, strcat},
	{"strcmp", []string{"a", "b"}, 1, strcmp},
	{"strncmp", []string{"a", "b", "n"}, 1, strncmp},
	{"strchr", []string{"s", "c"}, 1, strchr},
	{"strrchr", []string{"s", "c"}, 1, strrchr},
	{"strstr", []string{"s", "sub"}, 1, strstr},
}

// Exports returns the names of the exported functions in registration
// order.
func Exports() []string {
	names := make([]string, len(exports))
	for i, e := range exports {
		names[i] = e.name
	}
	return names
}

// Build returns a host module builder with every primitive exported.
// Callers may add further functions before instantiating it.
func Build(r wazero.Runtime, opts ...Option) wazero.HostModuleBuilder {
	o := applyOptions(opts)

	builder := r.NewHostModuleBuilder(o.name)
	for _, e := range exports {
		params := make([]api.ValueType, len(e.params))
		for i := range params {
			params[i] = i32
		}
		results := make([]api.ValueType, e.results)
		for i := range results {
			results[i] = i32
		}
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(wrap(e, o), params, results).
			WithParameterNames(e.params...).
			Export(e.name)
	}
	return builder
}

// Instantiate registers the host module on r.
func Instantiate(ctx context.Context, r wazero.Runtime, opts ...Option) (api.Module, error) {
	mod, err := Build(r, opts...).Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: instantiate: %w", err)
	}
	return mod, nil
}

// wrap adapts a handler to wazero. Errors become traps.
func wrap(e export, o options) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		start := time.Now()
		space, err := guestSpace(mod)
		if err == nil {
			err = e.fn(space, stack)
		}
		o.metrics.RecordCall(e.name, time.Since(start), err)
		if err != nil {
			o.logger.Debug("host call trapped",
				zap.String("func", e.name),
				zap.String("module", mod.Name()),
				zap.Error(err))
			panic(err)
		}
	}
}

// guestSpace views the caller's linear memory as a Space. The view is
// only valid for the duration of the call since memory may grow.
func guestSpace(mod api.Module) (*memstr.Space, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, ErrNoMemory
	}
	buf, ok := mem.Read(0, mem.Size())
	if !ok {
		return nil, ErrNoMemory
	}
	return memstr.WrapSpace(buf)
}

func addr(v uint64) memstr.Addr {
	return memstr.Addr(api.DecodeU32(v))
}

func count(v uint64) uint32 {
	return api.DecodeU32(v)
}

func value(v uint64) int {
	return int(api.DecodeI32(v))
}

func ret(stack []uint64, a memstr.Addr) {
	stack[0] = api.EncodeU32(uint32(a))
}

// retFound writes a search result; a miss is the null address.
func retFound(stack []uint64, a memstr.Addr, ok bool) {
	if !ok {
		a = 0
	}
	ret(stack, a)
}

func retInt(stack []uint64, r int) {
	stack[0] = api.EncodeI32(int32(r))
}

// signedCount decodes the int count of memcpy and memset. Negative
// counts trap.
func signedCount(op string, v uint64) (uint32, error) {
	cnt := api.DecodeI32(v)
	n, err := conv.Int32ToUint32(cnt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %d", op, memstr.ErrNegativeCount, cnt)
	}
	return n, nil
}

func memcpy(space *memstr.Space, stack []uint64) error {
	n, err := signedCount("memcpy", stack[2])
	if err != nil {
		return err
	}
	dst, err := space.Copy(addr(stack[0]), addr(stack[1]), n)
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func memset(space *memstr.Space, stack []uint64) error {
	n, err := signedCount("memset", stack[2])
	if err != nil {
		return err
	}
	dst, err := space.Fill(addr(stack[0]), value(stack[1]), n)
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func memcmp(space *memstr.Space, stack []uint64) error {
	r, err := space.Compare(addr(stack[0]), addr(stack[1]), count(stack[2]))
	if err != nil {
		return err
	}
	retInt(stack, r)
	return nil
}

func memchr(space *memstr.Space, stack []uint64) error {
	at, ok, err := space.Scan(addr(stack[0]), value(stack[1]), count(stack[2]))
	if err != nil {
		return err
	}
	retFound(stack, at, ok)
	return nil
}

func memmove(space *memstr.Space, stack []uint64) error {
	dst, err := space.Move(addr(stack[0]), addr(stack[1]), count(stack[2]))
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func strlen(space *memstr.Space, stack []uint64) error {
	n, err := space.Len(addr(stack[0]))
	if err != nil {
		return err
	}
	stack[0] = api.EncodeU32(n)
	return nil
}

func strnlen(space *memstr.Space, stack []uint64) error {
	n, err := space.NLen(addr(stack[0]), count(stack[1]))
	if err != nil {
		return err
	}
	stack[0] = api.EncodeU32(n)
	return nil
}

func strcpy(space *memstr.Space, stack []uint64) error {
	dst, err := space.StrCopy(addr(stack[0]), addr(stack[1]))
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func strncpy(space *memstr.Space, stack []uint64) error {
	dst, err := space.StrNCopy(addr(stack[0]), addr(stack[1]), count(stack[2]))
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func strcat(space *memstr.Space, stack []uint64) error {
	dst, err := space.Cat(addr(stack[0]), addr(stack[1]))
	if err != nil {
		return err
	}
	ret(stack, dst)
	return nil
}

func strcmp(space *memstr.Space, stack []uint64) error {
	r, err := space.StrCompare(addr(stack[0]), addr(stack[1]))
	if err != nil {
		return err
	}
	retInt(stack, r)
	return nil
}

func strncmp(space *memstr.Space, stack []uint64) error {
	r, err := space.StrNCompare(addr(stack[0]), addr(stack[1]), count(stack[2]))
	if err != nil {
		return err
	}
	retInt(stack, r)
	return nil
}

func strchr(space *memstr.Space, stack []uint64) error {
	at, ok, err := space.Chr(addr(stack[0]), value(stack[1]))
	if err != nil {
		return err
	}
	retFound(stack, at, ok)
	return nil
}

func strrchr(space *memstr.Space, stack []uint64) error {
	at, ok, err := space.RChr(addr(stack[0]), value(stack[1]))
	if err != nil {
		return err
	}
	retFound(stack, at, ok)
	return nil
}

func strstr(space *memstr.Space, stack []uint64) error {
	at, ok, err := space.Str(addr(stack[0]), addr(stack[1]))
	if err != nil {
		return err
	}
	retFound(stack, at, ok)
	return nil
}
