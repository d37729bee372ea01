/*
 * trajectory.go, part of oxdna-trajectory-reader.
 *
 * Copyright 2023 The oxdna-trajectory-reader developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package oxdna

// defaultChunk is how many configurations the index grows by when a request
// lands past its current coverage.
const defaultChunk = 20

// Trajectory is a sequence-like view over the configurations in a file. It
// owns the open file and an in-memory index of configuration end offsets
// which grows lazily, and monotonically, as later configurations are
// requested; it never caches decoded configurations. A Trajectory must be
// driven from a single goroutine, but any number of Trajectory instances
// over the same file are independent and can run concurrently.
type Trajectory struct {
	src      *source
	offsets  []int64
	complete bool
	chunk    int
}

// Open opens a trajectory file (plain, or compressed per the rules of the
// package). The optional chunk argument overrides how many configurations
// are indexed per incremental step.
//
// If a valid "<name>.idx" sidecar is present the index is loaded from it and
// the file is never scanned; the sidecar is written back whenever a
// Trajectory finishes indexing the whole file. A sidecar that does not match
// the file's current size is ignored and later overwritten.
func Open(name string, chunk ...int) (*Trajectory, error) {
	src, err := openSource(name)
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	T := &Trajectory{src: src, chunk: defaultChunk}
	if len(chunk) > 0 && chunk[0] > 0 {
		T.chunk = chunk[0]
	}
	if offs := readIndexFile(name, src.size); offs != nil {
		T.offsets = offs
		T.complete = true
	}
	return T, nil
}

// FileName returns the name of the underlying file.
func (T *Trajectory) FileName() string { return T.src.name }

// Close releases the underlying file. The Trajectory is unusable afterwards.
func (T *Trajectory) Close() error {
	err := T.src.Close()
	T.src.ra = nil
	return err
}

// indexedEnd returns the end offset of the last indexed configuration, i.e.
// the offset where indexing resumes.
func (T *Trajectory) indexedEnd() int64 {
	if len(T.offsets) == 0 {
		return 0
	}
	return T.offsets[len(T.offsets)-1]
}

// extend grows the index by up to limit configurations. Offsets indexed
// before a failure are kept, so a later call can not observe shrinkage.
func (T *Trajectory) extend(limit int) error {
	if T.complete {
		return nil
	}
	if T.src.ra == nil {
		return newGeneralError(TrajClosed, T.src.name, "extend")
	}
	start := T.indexedEnd()
	if start >= T.src.size {
		T.setComplete()
		return nil
	}
	offs, err := indexFrom(T.src, start, limit)
	T.offsets = append(T.offsets, offs...)
	if err != nil {
		return err
	}
	if limit <= 0 || len(offs) < limit {
		T.setComplete()
	}
	return nil
}

// setComplete marks the index fully built and persists it to the sidecar
// file. The sidecar is only a cache: a failed write is ignored and the next
// Open rebuilds the index from the trajectory itself.
func (T *Trajectory) setComplete() {
	T.complete = true
	if len(T.offsets) > 0 && T.indexedEnd() == T.src.size {
		writeIndexFile(T.src.name, T.offsets)
	}
}

// ensure grows the index until it covers position i; i < 0 asks for the
// whole file. A chunked step can read past i before hitting a bad
// configuration; the error is dropped when the offsets appended before the
// failure already cover i, since the caller only asked for that much.
func (T *Trajectory) ensure(i int) error {
	for !T.complete && (i < 0 || len(T.offsets) <= i) {
		limit := 0
		if i >= 0 {
			limit = i + 1 - len(T.offsets)
			if limit < T.chunk {
				limit = T.chunk
			}
		}
		if err := T.extend(limit); err != nil {
			if i >= 0 && len(T.offsets) > i {
				return nil
			}
			return err
		}
	}
	return nil
}

// Len returns the total number of configurations in the file. The first call
// indexes whatever part of the file is not indexed yet; the count is then
// served from memory for the life of the Trajectory.
func (T *Trajectory) Len() (int, error) {
	if err := T.ensure(-1); err != nil {
		return 0, errDecorate(err, "Len")
	}
	return len(T.offsets), nil
}

// At returns the i-th configuration, growing the index just far enough to
// find it and decoding only that one configuration. Access past the end of
// the file, or with a negative i, returns an IndexOutOfRangeError.
func (T *Trajectory) At(i int) (*Configuration, error) {
	if T.src.ra == nil {
		return nil, newGeneralError(TrajClosed, T.src.name, "At")
	}
	if i < 0 {
		return nil, newIndexOutOfRange(i, len(T.offsets), T.src.name, "At")
	}
	if err := T.ensure(i); err != nil {
		return nil, errDecorate(err, "At")
	}
	if i >= len(T.offsets) {
		return nil, newIndexOutOfRange(i, len(T.offsets), T.src.name, "At")
	}
	start := int64(0)
	if i > 0 {
		start = T.offsets[i-1]
	}
	_, confs, err := parseFrom(T.src, start, 1)
	if err != nil {
		return nil, errDecorate(err, "At")
	}
	if len(confs) == 0 {
		return nil, newIndexOutOfRange(i, len(T.offsets), T.src.name, "At")
	}
	return confs[0], nil
}

// Slice returns a lazy iterator over the configurations in [start, stop);
// stop < 0 means up to the end of the file. Each step grows the index as
// little as possible and decodes a single configuration. The iterator is
// restartable: calling Slice again re-reads through the now-built index
// without re-indexing anything.
func (T *Trajectory) Slice(start, stop int) *TrajectorySlice {
	return &TrajectorySlice{t: T, next: start, stop: stop}
}

// Iter iterates over the whole trajectory.
func (T *Trajectory) Iter() *TrajectorySlice {
	return T.Slice(0, -1)
}

// TrajectorySlice is a forward iterator over a range of a Trajectory.
type TrajectorySlice struct {
	t    *Trajectory
	next int
	stop int
}

// Next returns the next configuration in the range. Once the range, or the
// file, is exhausted it returns an error implementing LastFrameError, which
// marks normal termination.
func (S *TrajectorySlice) Next() (*Configuration, error) {
	if S.stop >= 0 && S.next >= S.stop {
		return nil, newlastFrameError(S.t.src.name, "Next")
	}
	conf, err := S.t.At(S.next)
	if err != nil {
		if _, ok := err.(IndexOutOfRangeError); ok {
			return nil, newlastFrameError(S.t.src.name, "Next")
		}
		return nil, errDecorate(err, "Next")
	}
	S.next++
	return conf, nil
}

// All materializes the remainder of the range.
func (S *TrajectorySlice) All() ([]*Configuration, error) {
	var confs []*Configuration
	for {
		conf, err := S.Next()
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				return confs, nil
			}
			return confs, errDecorate(err, "All")
		}
		confs = append(confs, conf)
	}
}
