package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sm2.mleku.dev"
	"sm2.mleku.dev/signer"
)

var errSignatureMismatch = errors.New("signature does not verify")

func (t *tool) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Long:  `Generates a private scalar and prints it with the compressed public key, both hex encoded.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := signer.NewSM2Signer(t.identity(), nil)
			if err := s.Generate(); err != nil {
				return errors.Wrap(err, "generating key pair")
			}
			defer s.Zero()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "private: %s\n", hex.EncodeToString(s.Sec()))
			fmt.Fprintf(out, "public:  %s\n", hex.EncodeToString(s.Pub()))
			t.logger.Info("generated key pair", zap.String("id", string(t.identity())))
			return nil
		},
	}
}

func (t *tool) signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign --key <hex> <message>",
		Short: "Sign a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeHex("key", t.v.GetString("key"))
			if err != nil {
				return err
			}
			kp, err := sm2.NewKeyPair(sm2.DefaultCurve(), new(big.Int).SetBytes(d))
			if err != nil {
				return errors.Wrap(err, "loading private key")
			}
			defer kp.Clear()

			s, err := sm2.NewSigner(t.identity(), kp, nil)
			if err != nil {
				return err
			}
			sig, err := s.Sign([]byte(args[0]))
			if err != nil {
				return errors.Wrap(err, "signing")
			}
			enc, err := t.encodeSignature(sig)
			if err != nil {
				return err
			}
			t.logger.Debug("signed message", zap.Int("length", len(args[0])), zap.String("format", t.format()))
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(enc))
			return nil
		},
	}
	cmd.Flags().String("key", "", "hex encoded private scalar")
	bindFlags(t.v, cmd.Flags(), "key")
	return cmd
}

func (t *tool) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify --pub <hex> --sig <hex> <message>",
		Short: "Verify a signature",
		Long:  `Verifies a signature over a message. Exits with status 1 if it does not verify.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := sm2.DefaultCurve()
			pubBytes, err := decodeHex("pub", t.v.GetString("pub"))
			if err != nil {
				return err
			}
			pub, err := c.Unmarshal(pubBytes)
			if err != nil {
				return errors.Wrap(err, "decoding public key")
			}
			v, err := sm2.NewVerifier(c, t.identity(), pub)
			if err != nil {
				return err
			}
			sigBytes, err := decodeHex("sig", t.v.GetString("sig"))
			if err != nil {
				return err
			}
			sig, err := t.decodeSignature(sigBytes)
			if err != nil {
				return err
			}
			if !v.Verify([]byte(args[0]), sig) {
				return errSignatureMismatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().String("pub", "", "hex encoded public key (compressed or uncompressed)")
	cmd.Flags().String("sig", "", "hex encoded signature")
	bindFlags(t.v, cmd.Flags(), "pub", "sig")
	return cmd
}

func (t *tool) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [message]",
		Short: "Print the SM3 digest of a message, or of standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := sm2.NewSM3()
			var src io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				src = strings.NewReader(args[0])
			}
			if _, err := io.Copy(h, src); err != nil {
				return errors.Wrap(err, "hashing input")
			}
			sum, err := h.Checksum()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sum[:]))
			return nil
		},
	}
}

func (t *tool) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Generate a key, sign \"message digest\" and verify it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := sm2.DefaultCurve()
			kp, err := sm2.GenerateKeyPair(c, nil)
			if err != nil {
				return errors.Wrap(err, "generating key pair")
			}
			defer kp.Clear()
			s, err := sm2.NewSigner(t.identity(), kp, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "curve:   %s\n", c.Name())
			fmt.Fprintf(out, "id:      %s\n", t.identity())
			fmt.Fprintf(out, "private: %s\n", sm2.HexEncode(kp.Private().Bytes()))
			fmt.Fprintf(out, "public:  %s\n", sm2.HexEncode(c.Marshal(kp.Public())))
			fmt.Fprintf(out, "ZA:      %s\n", sm2.HexEncode(s.ZA()))

			msg := []byte("message digest")
			sig, err := s.Sign(msg)
			if err != nil {
				return errors.Wrap(err, "signing")
			}
			fmt.Fprintf(out, "r:       %s\n", sm2.HexEncode(sig.RBytes()))
			fmt.Fprintf(out, "s:       %s\n", sm2.HexEncode(sig.SBytes()))
			fmt.Fprintf(out, "verify %q: %t\n", msg, s.Verify(msg, sig))
			forged := []byte("message dagest")
			fmt.Fprintf(out, "verify %q: %t\n", forged, s.Verify(forged, sig))
			return nil
		},
	}
}

func (t *tool) encodeSignature(sig *sm2.Signature) ([]byte, error) {
	if t.format() == formatASN1 {
		return sig.MarshalASN1()
	}
	return sig.Bytes()
}

func (t *tool) decodeSignature(b []byte) (*sm2.Signature, error) {
	if t.format() == formatASN1 {
		return sm2.ParseSignatureASN1(b)
	}
	return sm2.ParseSignature(b)
}

func decodeHex(name, s string) ([]byte, error) {
	if s == "" {
		return nil, errors.Errorf("--%s is required", name)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding --%s", name)
	}
	return b, nil
}
