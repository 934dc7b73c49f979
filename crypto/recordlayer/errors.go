package recordlayer

import "errors"

var (
	ErrNonceOverflow  = errors.New("recordlayer: nonce overflow, maximum number of frames reached")
	ErrInvalidKeySize = errors.New("recordlayer: key must be 32 bytes")
	ErrBufferTooSmall = errors.New("recordlayer: scratch buffer too small for frame")
	ErrDecryptFailed  = errors.New("recordlayer: decryption failed, frame rejected")
	ErrEncryptFailed  = errors.New("recordlayer: encryption failed")
)
