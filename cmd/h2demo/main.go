// Command h2demo runs a plaintext (h2c) demo server: it accepts TCP
// connections and speaks the frame-level engine directly against a
// trivial Handler, without TLS/ALPN negotiation.
package main

import (
	"context"
	"log"
	"net"

	h2core "github.com/h2-engine/core"
)

func main() {
	ln, err := net.Listen("tcp", ":8080")
	if err != nil {
		log.Fatal(err)
	}
	log.Println("listening on", ln.Addr())

	handler := h2core.HandlerFunc(func(ctx context.Context, resp *h2core.Responder, req *h2core.Request) {
		_, _ = resp.Write(ctx, []byte("hello from h2core\n"))
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("accept:", err)
			continue
		}

		go func(c net.Conn) {
			if err := h2core.Serve(context.Background(), c, handler, h2core.ServerConf{Debug: true}); err != nil {
				log.Println("connection ended:", err)
			}
		}(conn)
	}
}
