// Package pbf implements the protocol buffer wire primitives geobuf is framed
// with: varints, zigzag varints, fixed-width fields, length-delimited fields
// and packed repeated scalars.
//
// # Writing
//
// A Writer appends fields to a pooled buffer. Sub messages are built in a
// scratch writer and framed with their byte length:
//
//	w := pbf.NewWriter()
//	defer w.Release()
//
//	w.String(1, "name")
//	err := w.Message(6, func(g *pbf.Writer) error {
//	    g.Uint32(1, 0)
//	    g.PackedSint64(3, []int64{120403175, 31416966})
//	    return nil
//	})
//	out := w.Finish()
//
// # Reading
//
// A Reader walks fields in order. Every read is bounds checked; truncated or
// malformed input yields an error wrapping errs.ErrCorruptInput and the reader
// never indexes past the end of its slice. Fields the caller does not know
// are skipped with Skip, which is what keeps old decoders working on newer
// payloads:
//
//	r := pbf.NewReader(data)
//	for {
//	    f, err := r.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    switch f.Num {
//	    case 1:
//	        name, err = r.String()
//	    default:
//	        err = r.Skip()
//	    }
//	}
package pbf
