package util

import (
	"fmt"
	"sync"
)

// util/SetOnce.java

/*
A convenient class which offers a semi-immutable object wrapper
implementation which allows one to set the value of an object exactly
once, and retrieve it many times. If Set() is called more than once,
it panics.
*/
type SetOnce[T comparable] struct {
	once  sync.Once
	obj   T
	isSet bool
}

func NewSetOnce[T comparable]() *SetOnce[T] {
	return &SetOnce[T]{}
}

// Sets the given object. If the object has already been set, it panics.
func (so *SetOnce[T]) Set(obj T) {
	set := false
	so.once.Do(func() {
		so.obj, so.isSet, set = obj, true, true
	})
	assert2(set, "The object cannot be set twice!")
}

// Returns the object set by Set(), or the zero value.
func (so *SetOnce[T]) Get() T {
	return so.obj
}

// Reports whether Set() was called.
func (so *SetOnce[T]) IsSet() bool {
	return so.isSet
}

func (so *SetOnce[T]) String() string {
	if !so.isSet {
		return "undefined"
	}
	return fmt.Sprintf("%v", so.obj)
}
