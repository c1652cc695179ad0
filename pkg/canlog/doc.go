// Package canlog decodes CAN transceiver logs captured on textile machines
// into resolved, side-classified records.
//
// Quick start:
//
//	d, err := canlog.New(
//	    canlog.WithWorkbook("CAN_IDs.xlsx"),
//	    canlog.WithMachine("flyer"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, _ := d.Decode([]string{"[2024-01-01 10:00:00.000] rcv 00123456 0A"})
//	fmt.Println(res.Records[0].MsgType, res.Records[0].Operation) // Operation Start
//
// A Decoder is safe for concurrent use. Every Decode call is its own
// session with a fresh session ID.
package canlog
