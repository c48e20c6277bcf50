// Package protoc compiles .proto sources held in memory into descriptor sets.
package protoc

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Result is the outcome of a compilation.
type Result struct {
	// Set holds the primary file first, followed by its transitive dependencies
	Set     *descriptorpb.FileDescriptorSet
	Primary protoreflect.FileDescriptor
}

// Compiler compiles virtual file sets. The zero value is ready to use.
type Compiler struct{}

// Compile compiles the file at path primary out of files, keyed by import path.
// Well-known google/protobuf imports are always available.
func (*Compiler) Compile(ctx context.Context, files map[string]string, primary string) (*Result, error) {
	if _, ok := files[primary]; !ok {
		return nil, fmt.Errorf("compiling %q: file not found", primary)
	}
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(files),
		}),
	}
	compiled, err := compiler.Compile(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", primary, err)
	}
	fd := compiled[0]
	return &Result{Set: fileDescriptorSet(fd), Primary: fd}, nil
}

func fileDescriptorSet(primary protoreflect.FileDescriptor) *descriptorpb.FileDescriptorSet {
	set := &descriptorpb.FileDescriptorSet{}
	seen := map[string]bool{primary.Path(): true}
	queue := []protoreflect.FileDescriptor{primary}
	for len(queue) > 0 {
		fd := queue[0]
		queue = queue[1:]
		set.File = append(set.File, protodesc.ToFileDescriptorProto(fd))

		imports := fd.Imports()
		for i := 0; i < imports.Len(); i++ {
			dep := imports.Get(i).FileDescriptor
			if seen[dep.Path()] {
				continue
			}
			seen[dep.Path()] = true
			queue = append(queue, dep)
		}
	}
	return set
}
