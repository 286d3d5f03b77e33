// Package capture records and replays host calls against a browser
// runtime.
//
// A Recording is an ordered list of steps: root attachments, render
// batches (the raw heap bytes plus the batch address) and dispatched
// events. Recordings are stored as MessagePack and can be read from a
// local file or an S3 object:
//
//	rec, err := capture.Open(ctx, "s3://traces/checkout.bdc")
//	if err != nil {
//		return err
//	}
//	err = capture.Replay(ctx, rt, rec, nil)
package capture
