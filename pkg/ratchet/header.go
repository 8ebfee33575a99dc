package ratchet

import (
	"encoding/binary"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// Header is the wire-format ratchet header: the sender's current hybrid
// public key, the chain counters, and (when the flags bit is set) the
// hybrid-KEM ciphertext carrying a deferred send-side ratchet step.
//
// Wire layout:
//
//	magic(4) | version(1) | flags(1) | PN(4 BE) | N(4 BE) |
//	dh_pub_len(2 BE) | dh_pub | [ ct_len(2 BE) | ct ]
//
// The trailing ciphertext block is present only when
// constants.HeaderFlagNewDHCiphertext is set in flags.
type Header struct {
	DHPub      []byte
	PN         uint32
	N          uint32
	Ciphertext []byte
}

const headerFixedSize = 4 + 1 + 1 + 4 + 4 + 2

// EncodeHeader serializes h to its wire form.
func EncodeHeader(h *Header) ([]byte, error) {
	if len(h.DHPub) == 0 {
		return nil, tallowerrors.NewProtocolError("header-encode", tallowerrors.ErrProtocol)
	}

	flags := byte(0)
	if h.Ciphertext != nil {
		flags |= constants.HeaderFlagNewDHCiphertext
	}

	size := headerFixedSize + len(h.DHPub)
	if h.Ciphertext != nil {
		size += 2 + len(h.Ciphertext)
	}

	buf := make([]byte, size)
	offset := 0
	copy(buf[offset:], constants.MessageMagic)
	offset += 4
	buf[offset] = constants.ProtocolVersion
	offset++
	buf[offset] = flags
	offset++
	binary.BigEndian.PutUint32(buf[offset:], h.PN)
	offset += 4
	binary.BigEndian.PutUint32(buf[offset:], h.N)
	offset += 4
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(h.DHPub)))
	offset += 2
	copy(buf[offset:], h.DHPub)
	offset += len(h.DHPub)

	if h.Ciphertext != nil {
		binary.BigEndian.PutUint16(buf[offset:], uint16(len(h.Ciphertext)))
		offset += 2
		copy(buf[offset:], h.Ciphertext)
	}

	return buf, nil
}

// DecodeHeader parses a wire-format ratchet header, reporting the number
// of bytes consumed.
func DecodeHeader(data []byte) (*Header, int, error) {
	if len(data) < headerFixedSize {
		return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
	}
	if string(data[:4]) != constants.MessageMagic {
		return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
	}
	if data[4] != constants.ProtocolVersion {
		return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
	}
	flags := data[5]
	offset := 6

	pn := binary.BigEndian.Uint32(data[offset:])
	offset += 4
	n := binary.BigEndian.Uint32(data[offset:])
	offset += 4

	dhPubLen := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+dhPubLen {
		return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
	}
	dhPub := make([]byte, dhPubLen)
	copy(dhPub, data[offset:offset+dhPubLen])
	offset += dhPubLen

	h := &Header{DHPub: dhPub, PN: pn, N: n}

	if flags&constants.HeaderFlagNewDHCiphertext != 0 {
		if len(data) < offset+2 {
			return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
		}
		ctLen := int(binary.BigEndian.Uint16(data[offset:]))
		offset += 2
		if len(data) < offset+ctLen {
			return nil, 0, tallowerrors.NewProtocolError("header-decode", tallowerrors.ErrProtocol)
		}
		ct := make([]byte, ctLen)
		copy(ct, data[offset:offset+ctLen])
		offset += ctLen
		h.Ciphertext = ct
	}

	return h, offset, nil
}

// AAD returns the header's sender public key followed by PN and N (each
// big-endian) for use as AEAD associated data. The magic, version, flags
// and ratchet ciphertext of the wire encoding are not included.
func (h *Header) AAD() []byte {
	out := make([]byte, 0, len(h.DHPub)+8)
	out = append(out, h.DHPub...)
	out = append(out, uint32Bytes(h.PN)...)
	out = append(out, uint32Bytes(h.N)...)
	return out
}
