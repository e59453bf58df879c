package discovery

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

// NewConsulClient 创建Consul客户端
func NewConsulClient(host string, port int) (*api.Client, error) {
	client, err := api.NewClient(&api.Config{
		Address: fmt.Sprintf("%s:%d", host, port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return client, nil
}

// ServiceRegistry 服务注册器（HTTP 健康检查）
type ServiceRegistry struct {
	client    *api.Client
	serviceID string
}

// NewServiceRegistry 创建服务注册器
func NewServiceRegistry(client *api.Client, serviceID string) *ServiceRegistry {
	return &ServiceRegistry{client: client, serviceID: serviceID}
}

// Register 注册服务到 Consul，健康检查使用 /healthz HTTP 探测。
func (r *ServiceRegistry) Register(name, host string, port int) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("consul client is nil")
	}
	reg := &api.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", host, port),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := r.client.Agent().ServiceRegister(reg); err != nil {
		return fmt.Errorf("failed to register service %s: %w", name, err)
	}
	return nil
}

// Deregister 从 Consul 注销服务
func (r *ServiceRegistry) Deregister() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Agent().ServiceDeregister(r.serviceID)
}
