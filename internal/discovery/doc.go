// Package discovery locates OPC servers on the local network via mDNS.
//
// Servers such as fcserver advertise the "_opc._tcp" service type. A Scanner
// browses for that service and turns each announcement into a Server with a
// dialable address. Results are deduplicated by address.
//
//	servers, err := discovery.NewScanner().ScanForServers(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range servers {
//	    fmt.Println(s)
//	}
//
// Discovery requires multicast on the local segment (UDP port 5353).
package discovery
