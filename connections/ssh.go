package connections

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/rudderlabs/rudder-purifier/secrets"
)

// SSHConnection is an SSH bastion used to tunnel connections to other systems.
type SSHConnection struct {
	Host       string
	Port       int
	User       string
	PublicKey  string
	PrivateKey secrets.ID
}

// SSH connection option keys.
const (
	SSHHost       = "host"
	SSHPort       = "port"
	SSHUser       = "user"
	SSHPublicKey  = "public_key"
	SSHPrivateKey = "private_key"

	defaultSSHPort = 22
)

// NewSSHConnection builds an SSH connection out of catalog options.
func NewSSHConnection(opts Options) (*SSHConnection, error) {
	conn := &SSHConnection{Port: defaultSSHPort}
	var ok bool
	var err error
	if conn.Host, ok, err = opts.removeString(SSHHost); err != nil {
		return nil, err
	} else if !ok || conn.Host == "" {
		return nil, fmt.Errorf("must specify %s for an ssh connection", SSHHost)
	}
	if conn.User, ok, err = opts.removeString(SSHUser); err != nil {
		return nil, err
	} else if !ok || conn.User == "" {
		return nil, fmt.Errorf("must specify %s for an ssh connection", SSHUser)
	}
	port, ok, err := opts.removeString(SSHPort)
	if err != nil {
		return nil, err
	}
	if ok {
		if conn.Port, err = cast.ToIntE(port); err != nil || conn.Port <= 0 || conn.Port > math.MaxUint16 {
			return nil, fmt.Errorf("invalid %s %q", SSHPort, port)
		}
	}
	if conn.PublicKey, _, err = opts.removeString(SSHPublicKey); err != nil {
		return nil, err
	}
	key, ok, err := opts.removeSecret(SSHPrivateKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("must specify %s for an ssh connection", SSHPrivateKey)
	}
	conn.PrivateKey = key
	return conn, nil
}
